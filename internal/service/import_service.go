package service

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mstolarczyk/Goshawk/internal/media"
	"github.com/mstolarczyk/Goshawk/internal/model"
	"github.com/mstolarczyk/Goshawk/internal/repository"
	"github.com/mstolarczyk/Goshawk/internal/xlsx"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrBankHasAttempts is returned when a replace import targets a bank that
// exam attempts already reference. Such a bank must never be mutated.
var ErrBankHasAttempts = errors.New("question bank has linked exam attempts and cannot be replaced")

var scopeMap = map[string]model.QuestionScope{
	"PODSTAWOWY":      model.ScopeBasic,
	"SPECJALISTYCZNY": model.ScopeSpecialist,
}

// localeColumns maps each locale to its stem column and option columns, in
// the fixed layout of the source sheet. Order matters: Polish first.
var localeColumns = []struct {
	Locale  string
	Stem    string
	Options map[string]string
}{
	{"pl", "C", map[string]string{"A": "D", "B": "E", "C": "F"}},
	{"en", "O", map[string]string{"A": "P", "B": "Q", "C": "R"}},
	{"de", "S", map[string]string{"A": "T", "B": "U", "C": "V"}},
	{"ua", "W", map[string]string{"A": "X", "B": "Y", "C": "Z"}},
}

var mediaColumns = []struct {
	Slot   model.MediaSlot
	Column string
}{
	{model.SlotMain, "H"},
	{model.SlotPJMQuestion, "K"},
	{model.SlotPJMAnswerA, "L"},
	{model.SlotPJMAnswerB, "M"},
	{model.SlotPJMAnswerC, "N"},
}

type ImportRequest struct {
	XlsxPath        string
	MediaRoot       string
	Identifier      string
	PublishedOn     *time.Time
	ReplaceExisting bool
	Activate        bool
}

type ImportService interface {
	// Import runs one end-to-end import. A non-nil error means the run was
	// fatally aborted; per-row failures are recorded on the run ledger and do
	// not surface here.
	Import(req ImportRequest) (*model.QuestionBank, error)
}

type importService struct {
	bankRepo     repository.QuestionBankRepository
	questionRepo repository.QuestionRepository
	categoryRepo repository.LicenseCategoryRepository
	assetRepo    repository.MediaAssetRepository
	runRepo      repository.ImportRunRepository
	attemptRepo  repository.ExamAttemptRepository
	db           *gorm.DB
}

func NewImportService(
	bankRepo repository.QuestionBankRepository,
	questionRepo repository.QuestionRepository,
	categoryRepo repository.LicenseCategoryRepository,
	assetRepo repository.MediaAssetRepository,
	runRepo repository.ImportRunRepository,
	attemptRepo repository.ExamAttemptRepository,
	db *gorm.DB,
) ImportService {
	return &importService{
		bankRepo:     bankRepo,
		questionRepo: questionRepo,
		categoryRepo: categoryRepo,
		assetRepo:    assetRepo,
		runRepo:      runRepo,
		attemptRepo:  attemptRepo,
		db:           db,
	}
}

// importState carries everything scoped to a single run, so one ImportService
// instance can serve consecutive imports.
type importState struct {
	req      ImportRequest
	run      *model.ImportRun
	bank     *model.QuestionBank
	resolver *media.Resolver

	categoryCache map[string]*model.LicenseCategory
	assetCache    map[string]*model.MediaAsset

	// Entries created while one row is processed; merged into the run caches
	// only when the row commits, so a rollback never leaves stale records in
	// the caches.
	rowCategories map[string]*model.LicenseCategory
	rowAssets     map[string]*model.MediaAsset
	rowWarnings   int

	totalRows    int
	importedRows int
	skippedRows  int
	warningCount int
	errorCount   int
}

func (s *importService) Import(req ImportRequest) (*model.QuestionBank, error) {
	req.Identifier = strings.TrimSpace(req.Identifier)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	checksum, err := fileChecksum(req.XlsxPath)
	if err != nil {
		return nil, fmt.Errorf("cannot checksum %s: %w", req.XlsxPath, err)
	}

	st := &importState{
		req:           req,
		categoryCache: map[string]*model.LicenseCategory{},
		assetCache:    map[string]*model.MediaAsset{},
	}

	now := time.Now()
	st.run = &model.ImportRun{
		SourceFilename: filepath.Base(req.XlsxPath),
		SourceChecksum: checksum,
		Status:         model.ImportRunning,
		StartedAt:      now,
	}
	if err := s.runRepo.Create(st.run); err != nil {
		return nil, fmt.Errorf("cannot open import run: %w", err)
	}

	bank, err := s.prepareQuestionBank(st, checksum, now)
	if err != nil {
		s.failRun(st, err)
		return nil, err
	}
	st.bank = bank
	st.run.QuestionBankID = &bank.ID
	if err := s.runRepo.Update(st.run); err != nil {
		s.failRun(st, err)
		return nil, err
	}

	st.resolver, err = media.NewResolver(req.MediaRoot)
	if err != nil {
		s.failRun(st, err)
		return nil, err
	}

	reader := xlsx.NewReader(req.XlsxPath)
	err = reader.ForEach(func(row xlsx.Row) error {
		if row.Number == 1 {
			return nil
		}
		st.totalRows++
		s.importSingleRow(st, row)
		return nil
	})
	if err != nil {
		s.failRun(st, err)
		return nil, err
	}

	if err := s.finalizeRun(st); err != nil {
		return nil, err
	}
	log.Info().
		Str("identifier", req.Identifier).
		Str("status", string(st.run.Status)).
		Int("imported", st.importedRows).
		Int("skipped", st.skippedRows).
		Msg("Question bank import finished")
	return bank, nil
}

func validateRequest(req ImportRequest) error {
	if req.Identifier == "" {
		return errors.New("identifier cannot be blank")
	}
	if info, err := os.Stat(req.XlsxPath); err != nil || info.IsDir() {
		return fmt.Errorf("XLSX file not found: %s", req.XlsxPath)
	}
	if info, err := os.Stat(req.MediaRoot); err != nil || !info.IsDir() {
		return fmt.Errorf("media directory not found: %s", req.MediaRoot)
	}
	return nil
}

func (s *importService) prepareQuestionBank(st *importState, checksum string, now time.Time) (*model.QuestionBank, error) {
	bank, err := s.bankRepo.FindByIdentifier(st.req.Identifier)
	if err != nil {
		return nil, err
	}

	if bank != nil && st.req.ReplaceExisting {
		inUse, err := s.attemptRepo.ExistsForBank(bank.ID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, fmt.Errorf("%w: %s", ErrBankHasAttempts, st.req.Identifier)
		}
		if err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.questionRepo.DeleteForBank(tx, bank.ID)
		}); err != nil {
			return nil, err
		}
	}

	if bank == nil {
		bank = &model.QuestionBank{Identifier: st.req.Identifier}
	}
	bank.SourceFilename = filepath.Base(st.req.XlsxPath)
	bank.SourceChecksum = checksum
	bank.ImportedAt = &now
	bank.PublishedOn = st.req.PublishedOn
	bank.Active = st.req.Activate
	if err := s.bankRepo.Save(bank); err != nil {
		return nil, err
	}

	if st.req.Activate {
		if err := s.bankRepo.DeactivateOthers(bank.ID); err != nil {
			return nil, err
		}
	}
	return bank, nil
}

// importSingleRow wraps one row in its own transaction so a failure discards
// only that row's writes and the run keeps going.
func (s *importService) importSingleRow(st *importState, row xlsx.Row) {
	st.rowWarnings = 0
	st.rowCategories = map[string]*model.LicenseCategory{}
	st.rowAssets = map[string]*model.MediaAsset{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.importRowInTransaction(st, tx, row)
	})
	if err == nil {
		st.importedRows++
		st.warningCount += st.rowWarnings
		for code, category := range st.rowCategories {
			st.categoryCache[code] = category
		}
		for key, asset := range st.rowAssets {
			st.assetCache[key] = asset
		}
		return
	}

	st.skippedRows++

	var assetErr *mediaAssetError
	if errors.As(err, &assetErr) {
		st.errorCount++
		s.createIssue(st, nil, model.SeverityError, &row.Number, model.IssueMediaAssetPersistFailed,
			assetErr.Error(), model.JSONMap{"source_filename": assetErr.filename})
	}

	st.errorCount++
	s.createIssue(st, nil, model.SeverityError, &row.Number, model.IssueRowImportFailed, err.Error(), model.JSONMap{
		"error": fmt.Sprintf("%+v", err),
	})
}

func (s *importService) importRowInTransaction(st *importState, tx *gorm.DB, row xlsx.Row) error {
	cells := row.Cells

	officialNumber, ok := parsePositiveInt(cells["B"])
	if !ok {
		return errors.New("missing or invalid official question number")
	}

	scope, ok := scopeMap[strings.ToUpper(strings.TrimSpace(cells["I"]))]
	if !ok {
		return fmt.Errorf("unknown scope value '%s'", cells["I"])
	}

	correctKey := strings.ToUpper(strings.TrimSpace(cells["G"]))
	if !model.IsAnswerKey(correctKey) {
		return fmt.Errorf("invalid correct answer key '%s'", correctKey)
	}

	answerMode := s.inferAnswerMode(st, tx, row.Number, cells, correctKey)

	question, err := s.upsertQuestion(st, tx, row, officialNumber, scope, answerMode, correctKey)
	if err != nil {
		return err
	}

	if err := s.persistTranslations(tx, question, cells); err != nil {
		return fmt.Errorf("%w (row %d)", err, row.Number)
	}
	if err := s.persistOptions(st, tx, question, cells, row.Number); err != nil {
		return fmt.Errorf("%w (row %d)", err, row.Number)
	}
	if err := s.persistCategories(st, tx, question, cells, row.Number); err != nil {
		return err
	}
	return s.persistMediaLinks(st, tx, question, cells, row.Number)
}

func (s *importService) upsertQuestion(st *importState, tx *gorm.DB, row xlsx.Row, officialNumber int, scope model.QuestionScope, answerMode model.AnswerMode, correctKey string) (*model.Question, error) {
	var question model.Question
	err := tx.Where("question_bank_id = ? AND official_number = ?", st.bank.ID, officialNumber).First(&question).Error
	switch {
	case err == nil:
		// Re-import of a known question: children are wiped and rebuilt so
		// nothing stale survives.
		if err := s.questionRepo.DeleteChildren(tx, question.ID); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		question = model.Question{QuestionBankID: st.bank.ID, OfficialNumber: officialNumber}
	default:
		return nil, err
	}

	if lp, ok := parsePositiveInt(row.Cells["A"]); ok {
		question.SourceLp = &lp
	} else {
		question.SourceLp = nil
	}
	rowNumber := row.Number
	question.SourceRow = &rowNumber
	question.Scope = scope
	question.AnswerMode = answerMode
	question.CorrectKey = correctKey
	question.QuestionWeight = nil
	question.Active = true

	if err := tx.Save(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *importService) persistTranslations(tx *gorm.DB, question *model.Question, cells map[string]string) error {
	if strings.TrimSpace(cells["C"]) == "" {
		return errors.New("missing Polish question text")
	}

	for _, locale := range localeColumns {
		stem := strings.TrimSpace(cells[locale.Stem])
		if stem == "" {
			continue
		}
		translation := model.QuestionTranslation{QuestionID: question.ID, Locale: locale.Locale, Stem: stem}
		if err := tx.Create(&translation).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *importService) persistOptions(st *importState, tx *gorm.DB, question *model.Question, cells map[string]string, rowNumber int) error {
	if question.AnswerMode == model.AnswerModeYesNo {
		return nil
	}

	optionTexts := map[string]string{
		"A": strings.TrimSpace(cells["D"]),
		"B": strings.TrimSpace(cells["E"]),
		"C": strings.TrimSpace(cells["F"]),
	}
	if optionTexts["A"] == "" || optionTexts["B"] == "" || optionTexts["C"] == "" {
		st.rowWarnings++
		s.createIssue(st, tx, model.SeverityWarning, &rowNumber, model.IssueSingleChoiceMissingOptionText,
			"Single choice question has blank option text in PL", model.JSONMap{
				"A": optionTexts["A"], "B": optionTexts["B"], "C": optionTexts["C"],
			})
	}

	for index, key := range model.SingleChoiceKeys {
		option := model.QuestionOption{QuestionID: question.ID, Key: key, Position: index + 1}
		if err := tx.Create(&option).Error; err != nil {
			return err
		}

		for _, locale := range localeColumns {
			text := strings.TrimSpace(cells[locale.Options[key]])
			if text == "" {
				continue
			}
			translation := model.QuestionOptionTranslation{QuestionOptionID: option.ID, Locale: locale.Locale, Text: text}
			if err := tx.Create(&translation).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *importService) persistCategories(st *importState, tx *gorm.DB, question *model.Question, cells map[string]string, rowNumber int) error {
	var codes []string
	seen := map[string]bool{}
	for _, raw := range strings.Split(cells["J"], ",") {
		code := strings.ToUpper(strings.TrimSpace(raw))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}

	if len(codes) == 0 {
		st.rowWarnings++
		s.createIssue(st, tx, model.SeverityWarning, &rowNumber, model.IssueMissingCategories,
			"Question has no category mapping", model.JSONMap{})
		return nil
	}

	for _, code := range codes {
		category := st.categoryCache[code]
		if category == nil {
			category = st.rowCategories[code]
		}
		if category == nil {
			found, err := s.categoryRepo.FindOrCreateByCode(tx, code)
			if err != nil {
				return err
			}
			category = found
			st.rowCategories[code] = category
		}

		link := model.QuestionCategory{QuestionID: question.ID, LicenseCategoryID: category.ID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *importService) persistMediaLinks(st *importState, tx *gorm.DB, question *model.Question, cells map[string]string, rowNumber int) error {
	for _, slot := range mediaColumns {
		sourceFilename := strings.TrimSpace(cells[slot.Column])
		if sourceFilename == "" {
			continue
		}

		resolution := st.resolver.Resolve(sourceFilename)
		asset, err := s.fetchMediaAsset(st, tx, sourceFilename, resolution)
		if err != nil {
			return err
		}

		status := model.LinkMissing
		if resolution.Found() {
			status = model.LinkAttached
		}
		link := model.QuestionMediaLink{
			QuestionID:     question.ID,
			MediaAssetID:   &asset.ID,
			Slot:           slot.Slot,
			SourceFilename: sourceFilename,
			Status:         status,
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		switch {
		case resolution.Status == media.StatusAmbiguous:
			st.rowWarnings++
			s.createIssue(st, tx, model.SeverityWarning, &rowNumber, model.IssueMediaFileAmbiguous,
				"Multiple candidate files found for media reference", model.JSONMap{
					"source_filename": sourceFilename,
					"candidates":      basenames(resolution.Candidates),
				})
		case resolution.Status == media.StatusMissing:
			st.rowWarnings++
			s.createIssue(st, tx, model.SeverityWarning, &rowNumber, model.IssueMediaFileMissing,
				"Media file referenced in XLSX is missing", model.JSONMap{
					"source_filename": sourceFilename,
					"slot":            string(slot.Slot),
				})
		case resolution.MatchType == media.MatchNormalized:
			st.rowWarnings++
			s.createIssue(st, tx, model.SeverityWarning, &rowNumber, model.IssueMediaFileNormalizedMatch,
				"Media file matched using normalized filename", model.JSONMap{
					"source_filename":   sourceFilename,
					"resolved_filename": filepath.Base(resolution.Path),
				})
		}
	}
	return nil
}

// fetchMediaAsset finds or creates the asset for one referenced filename.
// Assets are cached per (kind, source filename) for the whole run, so two
// rows referencing the same file share one record and never attach it twice.
// A persistence failure surfaces as a mediaAssetError so the row wrapper can
// record it after the rollback.
func (s *importService) fetchMediaAsset(st *importState, tx *gorm.DB, sourceFilename string, resolution media.Resolution) (*model.MediaAsset, error) {
	kind := media.KindForFilename(sourceFilename)
	cacheKey := string(kind) + ":" + sourceFilename
	if cached := st.assetCache[cacheKey]; cached != nil {
		return cached, nil
	}
	if cached := st.rowAssets[cacheKey]; cached != nil {
		return cached, nil
	}

	asset, err := s.buildMediaAsset(tx, kind, sourceFilename, resolution)
	if err != nil {
		return nil, &mediaAssetError{filename: sourceFilename, err: err}
	}

	st.rowAssets[cacheKey] = asset
	return asset, nil
}

func (s *importService) buildMediaAsset(tx *gorm.DB, kind model.MediaKind, sourceFilename string, resolution media.Resolution) (*model.MediaAsset, error) {
	asset, err := s.assetRepo.FindBySource(tx, kind, sourceFilename)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		asset = &model.MediaAsset{
			Kind:           kind,
			SourceFilename: sourceFilename,
			Metadata:       model.JSONMap{},
		}
	}
	asset.NormalizedFilename = media.Normalize(sourceFilename)

	if resolution.Found() {
		if err := attachMediaFile(asset, resolution.Path, sourceFilename); err != nil {
			return nil, err
		}
		asset.ProcessingStatus = model.ProcessingAttached
	} else {
		asset.ProcessingStatus = model.ProcessingMissing
	}

	if err := s.assetRepo.Save(tx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// mediaAssetError marks a row failure caused by persisting a media asset, so
// the run ledger gets a dedicated issue next to the generic row failure.
type mediaAssetError struct {
	filename string
	err      error
}

func (e *mediaAssetError) Error() string { return e.err.Error() }
func (e *mediaAssetError) Unwrap() error { return e.err }

// attachMediaFile records the physical file on the asset: storage path,
// checksum, content type, byte size and, for videos, probed dimensions.
func attachMediaFile(asset *model.MediaAsset, path, sourceFilename string) error {
	if asset.Attached() {
		return nil
	}

	checksum, err := fileChecksum(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	contentType := "application/octet-stream"
	if mtype, err := mimetype.DetectFile(path); err == nil {
		contentType = mtype.String()
	}

	size := info.Size()
	asset.StoragePath = path
	asset.ChecksumSHA256 = checksum
	asset.ContentType = contentType
	asset.ByteSize = &size
	if asset.Metadata == nil {
		asset.Metadata = model.JSONMap{}
	}
	asset.Metadata["resolved_filename"] = filepath.Base(path)
	asset.Metadata["referenced_filename"] = sourceFilename

	if asset.Kind == model.MediaKindVideo {
		// Probe failures never block the attach; dimensions are optional
		// technical metadata.
		if probe, err := media.ProbeVideo(path); err == nil {
			durationMs := int(probe.Duration * 1000)
			asset.DurationMs = &durationMs
			if probe.Width > 0 {
				asset.Width = &probe.Width
			}
			if probe.Height > 0 {
				asset.Height = &probe.Height
			}
		} else {
			log.Debug().Err(err).Str("path", path).Msg("Video probe failed")
		}
	}
	return nil
}

func (s *importService) inferAnswerMode(st *importState, tx *gorm.DB, rowNumber int, cells map[string]string, correctKey string) model.AnswerMode {
	optionA := strings.TrimSpace(cells["D"])
	optionB := strings.TrimSpace(cells["E"])
	optionC := strings.TrimSpace(cells["F"])

	if optionA == "" && optionB == "" && optionC == "" {
		return model.AnswerModeYesNo
	}
	if optionA != "" && optionB != "" && optionC != "" {
		return model.AnswerModeSingleChoice
	}

	fallback := model.AnswerModeSingleChoice
	if model.IsYesNoKey(correctKey) {
		fallback = model.AnswerModeYesNo
	}
	st.rowWarnings++
	s.createIssue(st, tx, model.SeverityWarning, &rowNumber, model.IssueMixedAnswerFormat,
		"Question has partial option set; fallback mode inferred", model.JSONMap{
			"option_a":    optionA,
			"option_b":    optionB,
			"option_c":    optionC,
			"fallback":    string(fallback),
			"correct_key": correctKey,
		})
	return fallback
}

func (s *importService) createIssue(st *importState, tx *gorm.DB, severity model.IssueSeverity, rowNumber *int, code, message string, context model.JSONMap) {
	issue := model.ImportIssue{
		ImportRunID: st.run.ID,
		Severity:    severity,
		RowNumber:   rowNumber,
		Code:        code,
		Message:     message,
		Context:     context,
	}
	if err := s.runRepo.AppendIssue(tx, &issue); err != nil {
		log.Error().Err(err).Str("code", code).Msg("Failed to record import issue")
	}
}

func (s *importService) finalizeRun(st *importState) error {
	var status model.ImportStatus
	switch {
	case st.errorCount == 0 && st.warningCount == 0:
		status = model.ImportCompleted
	case st.errorCount == 0:
		status = model.ImportCompletedWithWarnings
	case st.importedRows > 0:
		status = model.ImportCompletedWithWarnings
	default:
		status = model.ImportFailed
	}

	finished := time.Now()
	st.run.Status = status
	st.run.FinishedAt = &finished
	st.run.TotalRows = st.totalRows
	st.run.ImportedRows = st.importedRows
	st.run.SkippedRows = st.skippedRows
	st.run.WarningCount = st.warningCount
	st.run.ErrorCount = st.errorCount
	st.run.Summary = fmt.Sprintf("Imported %d/%d rows, skipped %d, warnings %d, errors %d",
		st.importedRows, st.totalRows, st.skippedRows, st.warningCount, st.errorCount)
	return s.runRepo.Update(st.run)
}

// failRun force-finalizes the run after a fatal abort. The run always ends
// failed with at least one recorded error, whatever had happened before.
func (s *importService) failRun(st *importState, cause error) {
	if st.run == nil || st.run.ID == 0 {
		return
	}

	st.errorCount++
	s.createIssue(st, nil, model.SeverityError, nil, model.IssueImportAborted, cause.Error(), model.JSONMap{})

	finished := time.Now()
	st.run.Status = model.ImportFailed
	st.run.FinishedAt = &finished
	st.run.TotalRows = st.totalRows
	st.run.ImportedRows = st.importedRows
	st.run.SkippedRows = st.skippedRows
	st.run.WarningCount = st.warningCount
	st.run.ErrorCount = st.errorCount
	st.run.Summary = fmt.Sprintf("Import aborted: %s", cause.Error())
	if err := s.runRepo.Update(st.run); err != nil {
		log.Error().Err(err).Uint("runID", st.run.ID).Msg("Failed to finalize aborted import run")
	}
}

func parsePositiveInt(value string) (int, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	n := 0
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return 0, false
	}
	return n, true
}

func fileChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

func basenames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, path := range paths {
		names = append(names, filepath.Base(path))
	}
	return names
}
