package service

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mstolarczyk/Goshawk/database"
	"github.com/mstolarczyk/Goshawk/internal/model"
	"github.com/mstolarczyk/Goshawk/internal/repository"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "import.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func newTestImportService(db *gorm.DB) ImportService {
	return NewImportService(
		repository.NewQuestionBankRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewLicenseCategoryRepository(db),
		repository.NewMediaAssetRepository(db),
		repository.NewImportRunRepository(db),
		repository.NewExamAttemptRepository(db),
		db,
	)
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// writeQuestionWorkbook builds a minimal XLSX container whose first row is a
// header and whose data rows come from the given column maps.
func writeQuestionWorkbook(t *testing.T, rows ...map[string]string) string {
	t.Helper()

	var sheet strings.Builder
	sheet.WriteString(`<?xml version="1.0"?><worksheet><sheetData>`)
	sheet.WriteString(`<row r="1"><c r="A1"><v>Lp</v></c><c r="B1"><v>Numer pytania</v></c></row>`)
	for i, cells := range rows {
		rowNum := i + 2
		fmt.Fprintf(&sheet, `<row r="%d">`, rowNum)
		for col := 'A'; col <= 'Z'; col++ {
			value, ok := cells[string(col)]
			if !ok {
				continue
			}
			fmt.Fprintf(&sheet, `<c r="%c%d"><v>%s</v></c>`, col, rowNum, xmlEscaper.Replace(value))
		}
		sheet.WriteString(`</row>`)
	}
	sheet.WriteString(`</sheetData></worksheet>`)

	path := filepath.Join(t.TempDir(), "bank.xlsx")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating workbook: %v", err)
	}
	defer file.Close()

	writer := zip.NewWriter(file)
	parts := map[string]string{
		"xl/sharedStrings.xml":     `<?xml version="1.0"?><sst/>`,
		"xl/worksheets/sheet1.xml": sheet.String(),
		"[Content_Types].xml":      `<?xml version="1.0"?><Types/>`,
	}
	for name, content := range parts {
		part, err := writer.Create(name)
		if err != nil {
			t.Fatalf("creating part %s: %v", name, err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("writing part %s: %v", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing workbook: %v", err)
	}
	return path
}

func writeMediaDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("media bytes for "+name), 0o644); err != nil {
			t.Fatalf("writing media file %s: %v", name, err)
		}
	}
	return dir
}

func singleChoiceRow(official int) map[string]string {
	return map[string]string{
		"A": "1",
		"B": strconv.Itoa(official),
		"C": "Który znak ostrzega przed zakrętem?",
		"D": "Znak A-1",
		"E": "Znak A-2",
		"F": "Znak A-3",
		"G": "A",
		"I": "PODSTAWOWY",
		"J": "B, C+E",
		"O": "Which sign warns about a bend?",
		"P": "Sign A-1",
		"Q": "Sign A-2",
		"R": "Sign A-3",
	}
}

func yesNoRow(official int) map[string]string {
	return map[string]string{
		"A": "2",
		"B": strconv.Itoa(official),
		"C": "Czy wolno wyprzedzać na przejściu?",
		"G": "N",
		"I": "SPECJALISTYCZNY",
		"J": "C",
	}
}

func lastRun(t *testing.T, db *gorm.DB) *model.ImportRun {
	t.Helper()
	var run model.ImportRun
	if err := db.Preload("Issues").Order("id desc").First(&run).Error; err != nil {
		t.Fatalf("loading run: %v", err)
	}
	return &run
}

func issueCodes(run *model.ImportRun) []string {
	codes := make([]string, 0, len(run.Issues))
	for _, issue := range run.Issues {
		codes = append(codes, issue.Code)
	}
	return codes
}

func hasIssue(run *model.ImportRun, code string) bool {
	for _, issue := range run.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func TestImportSingleChoiceRow(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)

	row := singleChoiceRow(101)
	row["H"] = "znak.jpg"
	published := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	bank, err := svc.Import(ImportRequest{
		XlsxPath:        writeQuestionWorkbook(t, row),
		MediaRoot:       writeMediaDir(t, "znak.jpg"),
		Identifier:      "2026-03",
		PublishedOn:     &published,
		ReplaceExisting: true,
		Activate:        true,
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !bank.Active {
		t.Error("bank should be active")
	}
	if bank.SourceChecksum == "" {
		t.Error("bank checksum not recorded")
	}

	run := lastRun(t, db)
	if run.Status != model.ImportCompleted {
		t.Errorf("run status = %s, want completed (issues: %v)", run.Status, issueCodes(run))
	}
	if run.TotalRows != 1 || run.ImportedRows != 1 || run.SkippedRows != 0 {
		t.Errorf("run counters = %d/%d/%d", run.TotalRows, run.ImportedRows, run.SkippedRows)
	}
	if run.QuestionBankID == nil || *run.QuestionBankID != bank.ID {
		t.Error("run not linked to bank")
	}

	var question model.Question
	err = db.Preload("Translations").Preload("Options.Translations").
		Preload("Categories").Preload("MediaLinks.MediaAsset").
		Where("question_bank_id = ? AND official_number = ?", bank.ID, 101).
		First(&question).Error
	if err != nil {
		t.Fatalf("loading question: %v", err)
	}
	if question.AnswerMode != model.AnswerModeSingleChoice || question.CorrectKey != "A" {
		t.Errorf("question = mode %s key %s", question.AnswerMode, question.CorrectKey)
	}
	if question.Scope != model.ScopeBasic {
		t.Errorf("scope = %s, want basic", question.Scope)
	}
	if len(question.Translations) != 2 {
		t.Errorf("translations = %d, want pl+en", len(question.Translations))
	}
	if len(question.Options) != 3 {
		t.Fatalf("options = %d, want 3", len(question.Options))
	}
	for i, option := range question.Options {
		if option.Position != i+1 {
			t.Errorf("option %s position = %d", option.Key, option.Position)
		}
	}
	if len(question.Categories) != 2 {
		t.Errorf("categories = %d, want B and C+E", len(question.Categories))
	}

	link := question.MediaLinkFor(model.SlotMain)
	if link == nil {
		t.Fatal("main media link missing")
	}
	if link.Status != model.LinkAttached {
		t.Errorf("link status = %s", link.Status)
	}
	if link.MediaAsset == nil || !link.MediaAsset.Attached() {
		t.Fatal("asset not attached")
	}
	if link.MediaAsset.ChecksumSHA256 == "" || link.MediaAsset.ByteSize == nil {
		t.Error("asset file metadata missing")
	}
	if link.MediaAsset.Kind != model.MediaKindImage {
		t.Errorf("asset kind = %s", link.MediaAsset.Kind)
	}
}

func TestImportYesNoRow(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)

	bank, err := svc.Import(ImportRequest{
		XlsxPath:   writeQuestionWorkbook(t, yesNoRow(5)),
		MediaRoot:  writeMediaDir(t),
		Identifier: "2026-04",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if bank.Active {
		t.Error("bank should stay inactive without Activate")
	}

	run := lastRun(t, db)
	if run.Status != model.ImportCompleted {
		t.Errorf("run status = %s (issues: %v)", run.Status, issueCodes(run))
	}

	var question model.Question
	if err := db.Preload("Options").Where("question_bank_id = ?", bank.ID).First(&question).Error; err != nil {
		t.Fatalf("loading question: %v", err)
	}
	if question.AnswerMode != model.AnswerModeYesNo || question.CorrectKey != "N" {
		t.Errorf("question = mode %s key %s", question.AnswerMode, question.CorrectKey)
	}
	if question.Scope != model.ScopeSpecialist {
		t.Errorf("scope = %s", question.Scope)
	}
	if len(question.Options) != 0 {
		t.Errorf("yes/no question has %d options", len(question.Options))
	}
}

func TestImportSkipsRowWithoutPolishStem(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)

	broken := singleChoiceRow(1)
	broken["C"] = "  "
	bank, err := svc.Import(ImportRequest{
		XlsxPath:   writeQuestionWorkbook(t, broken, singleChoiceRow(2)),
		MediaRoot:  writeMediaDir(t),
		Identifier: "2026-05",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	run := lastRun(t, db)
	if run.Status != model.ImportCompletedWithWarnings {
		t.Errorf("run status = %s, want completed_with_warnings", run.Status)
	}
	if run.ImportedRows != 1 || run.SkippedRows != 1 || run.ErrorCount != 1 {
		t.Errorf("counters imported=%d skipped=%d errors=%d", run.ImportedRows, run.SkippedRows, run.ErrorCount)
	}
	if !hasIssue(run, model.IssueRowImportFailed) {
		t.Errorf("issues = %v, want row_import_failed", issueCodes(run))
	}

	var count int64
	db.Model(&model.Question{}).Where("question_bank_id = ?", bank.ID).Count(&count)
	if count != 1 {
		t.Errorf("questions = %d, want only the valid row", count)
	}
	// Nothing of the failed row may survive its rollback.
	var translations int64
	db.Model(&model.QuestionTranslation{}).Count(&translations)
	if translations != 2 {
		t.Errorf("translations = %d, want 2 (pl+en of the valid row)", translations)
	}
}

func TestImportMixedOptionsFallsBackByKey(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)

	row := yesNoRow(9)
	row["D"] = "Tylko jedna odpowiedź"
	bank, err := svc.Import(ImportRequest{
		XlsxPath:   writeQuestionWorkbook(t, row),
		MediaRoot:  writeMediaDir(t),
		Identifier: "2026-06",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	var question model.Question
	if err := db.Where("question_bank_id = ?", bank.ID).First(&question).Error; err != nil {
		t.Fatalf("loading question: %v", err)
	}
	if question.AnswerMode != model.AnswerModeYesNo {
		t.Errorf("answer mode = %s, want yes_no fallback for key N", question.AnswerMode)
	}

	run := lastRun(t, db)
	if run.Status != model.ImportCompletedWithWarnings || run.WarningCount != 1 {
		t.Errorf("run = %s with %d warnings", run.Status, run.WarningCount)
	}
	if !hasIssue(run, model.IssueMixedAnswerFormat) {
		t.Errorf("issues = %v, want mixed_answer_format", issueCodes(run))
	}
}

func TestImportMediaResolutionOutcomes(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)

	row := singleChoiceRow(20)
	row["H"] = "ZNAK.JPG" // casefold match, no warning
	row["K"] = "świt.png" // normalized match, warning
	row["L"] = "brak.jpg" // missing, warning
	bank, err := svc.Import(ImportRequest{
		XlsxPath:   writeQuestionWorkbook(t, row),
		MediaRoot:  writeMediaDir(t, "znak.jpg", "swit.png"),
		Identifier: "2026-07",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	var question model.Question
	if err := db.Preload("MediaLinks.MediaAsset").Where("question_bank_id = ?", bank.ID).First(&question).Error; err != nil {
		t.Fatalf("loading question: %v", err)
	}

	main := question.MediaLinkFor(model.SlotMain)
	if main == nil || main.Status != model.LinkAttached {
		t.Errorf("casefold match should attach, got %+v", main)
	}
	normalized := question.MediaLinkFor(model.SlotPJMQuestion)
	if normalized == nil || normalized.Status != model.LinkAttached {
		t.Errorf("normalized match should attach, got %+v", normalized)
	}
	missing := question.MediaLinkFor(model.SlotPJMAnswerA)
	if missing == nil {
		t.Fatal("missing-file link not created")
	}
	if missing.Status != model.LinkMissing {
		t.Errorf("missing file should leave link missing, got %s", missing.Status)
	}
	if missing.MediaAsset == nil || missing.MediaAsset.ProcessingStatus != model.ProcessingMissing {
		t.Error("missing reference still gets a placeholder asset")
	}

	run := lastRun(t, db)
	if run.WarningCount != 2 {
		t.Errorf("warnings = %d (issues: %v)", run.WarningCount, issueCodes(run))
	}
	if !hasIssue(run, model.IssueMediaFileNormalizedMatch) || !hasIssue(run, model.IssueMediaFileMissing) {
		t.Errorf("issues = %v", issueCodes(run))
	}
	if hasIssue(run, model.IssueMediaFileAmbiguous) {
		t.Errorf("casefold match must not warn: %v", issueCodes(run))
	}
}

func TestImportAmbiguousMediaReference(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)

	row := singleChoiceRow(30)
	row["H"] = "Dwa.jpg " // trailing space forces the normalized tier, where two files collide
	bank, err := svc.Import(ImportRequest{
		XlsxPath:   writeQuestionWorkbook(t, row),
		MediaRoot:  writeMediaDir(t, "Dwa.jpg", "dwa.jpg"),
		Identifier: "2026-08",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	var question model.Question
	if err := db.Preload("MediaLinks").Where("question_bank_id = ?", bank.ID).First(&question).Error; err != nil {
		t.Fatalf("loading question: %v", err)
	}
	link := question.MediaLinkFor(model.SlotMain)
	if link == nil || link.Status != model.LinkMissing {
		t.Errorf("ambiguous reference should not attach, got %+v", link)
	}

	run := lastRun(t, db)
	if !hasIssue(run, model.IssueMediaFileAmbiguous) {
		t.Errorf("issues = %v, want media_file_ambiguous", issueCodes(run))
	}
}

func TestImportSharesAssetAcrossRows(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)

	first := singleChoiceRow(1)
	first["H"] = "znak.jpg"
	second := singleChoiceRow(2)
	second["H"] = "znak.jpg"
	_, err := svc.Import(ImportRequest{
		XlsxPath:   writeQuestionWorkbook(t, first, second),
		MediaRoot:  writeMediaDir(t, "znak.jpg"),
		Identifier: "2026-09",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	var assets int64
	db.Model(&model.MediaAsset{}).Count(&assets)
	if assets != 1 {
		t.Errorf("assets = %d, want one shared record", assets)
	}
	var links int64
	db.Model(&model.QuestionMediaLink{}).Count(&links)
	if links != 2 {
		t.Errorf("links = %d, want 2", links)
	}
}

func TestReimportReplacesQuestions(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)
	media := writeMediaDir(t)

	if _, err := svc.Import(ImportRequest{
		XlsxPath:        writeQuestionWorkbook(t, singleChoiceRow(1), singleChoiceRow(2)),
		MediaRoot:       media,
		Identifier:      "2026-10",
		ReplaceExisting: true,
	}); err != nil {
		t.Fatalf("first import: %v", err)
	}

	updated := singleChoiceRow(1)
	updated["C"] = "Zmieniona treść pytania"
	bank, err := svc.Import(ImportRequest{
		XlsxPath:        writeQuestionWorkbook(t, updated),
		MediaRoot:       media,
		Identifier:      "2026-10",
		ReplaceExisting: true,
	})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	var banks int64
	db.Model(&model.QuestionBank{}).Count(&banks)
	if banks != 1 {
		t.Errorf("banks = %d, want the same bank reused", banks)
	}

	var questions []model.Question
	if err := db.Preload("Translations").Where("question_bank_id = ?", bank.ID).Find(&questions).Error; err != nil {
		t.Fatalf("loading questions: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("questions = %d, want only the re-imported one", len(questions))
	}
	if got := questions[0].TranslationFor("pl").Stem; got != "Zmieniona treść pytania" {
		t.Errorf("stem = %q", got)
	}

	var runs int64
	db.Model(&model.ImportRun{}).Count(&runs)
	if runs != 2 {
		t.Errorf("runs = %d, want one per invocation", runs)
	}
}

func TestImportRefusesBankWithAttempts(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)
	media := writeMediaDir(t)

	bank, err := svc.Import(ImportRequest{
		XlsxPath:        writeQuestionWorkbook(t, singleChoiceRow(1)),
		MediaRoot:       media,
		Identifier:      "2026-11",
		ReplaceExisting: true,
	})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}

	attempt := model.ExamAttempt{
		QuestionBankID: bank.ID,
		StartedAt:      time.Now(),
		DeadlineAt:     time.Now().Add(25 * time.Minute),
	}
	if err := db.Create(&attempt).Error; err != nil {
		t.Fatalf("creating attempt: %v", err)
	}

	_, err = svc.Import(ImportRequest{
		XlsxPath:        writeQuestionWorkbook(t, singleChoiceRow(99)),
		MediaRoot:       media,
		Identifier:      "2026-11",
		ReplaceExisting: true,
	})
	if !errors.Is(err, ErrBankHasAttempts) {
		t.Fatalf("err = %v, want ErrBankHasAttempts", err)
	}

	var count int64
	db.Model(&model.Question{}).Where("question_bank_id = ?", bank.ID).Count(&count)
	if count != 1 {
		t.Errorf("questions = %d, existing bank must stay untouched", count)
	}

	run := lastRun(t, db)
	if run.Status != model.ImportFailed {
		t.Errorf("aborted run status = %s", run.Status)
	}
	if !hasIssue(run, model.IssueImportAborted) {
		t.Errorf("issues = %v, want import_aborted", issueCodes(run))
	}
}

func TestImportActivateDeactivatesOtherBanks(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)
	media := writeMediaDir(t)

	first, err := svc.Import(ImportRequest{
		XlsxPath:   writeQuestionWorkbook(t, singleChoiceRow(1)),
		MediaRoot:  media,
		Identifier: "2026-01",
		Activate:   true,
	})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}

	second, err := svc.Import(ImportRequest{
		XlsxPath:   writeQuestionWorkbook(t, singleChoiceRow(1)),
		MediaRoot:  media,
		Identifier: "2026-02",
		Activate:   true,
	})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	var reloaded model.QuestionBank
	if err := db.First(&reloaded, first.ID).Error; err != nil {
		t.Fatalf("reloading first bank: %v", err)
	}
	if reloaded.Active {
		t.Error("first bank should have been deactivated")
	}
	var active model.QuestionBank
	if err := db.First(&active, second.ID).Error; err != nil {
		t.Fatalf("reloading second bank: %v", err)
	}
	if !active.Active {
		t.Error("second bank should be active")
	}
}

func TestImportRejectsInvalidRequests(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)
	xlsxPath := writeQuestionWorkbook(t, singleChoiceRow(1))
	media := writeMediaDir(t)

	cases := []struct {
		name string
		req  ImportRequest
	}{
		{"blank identifier", ImportRequest{XlsxPath: xlsxPath, MediaRoot: media, Identifier: "   "}},
		{"missing workbook", ImportRequest{XlsxPath: filepath.Join(media, "nope.xlsx"), MediaRoot: media, Identifier: "x"}},
		{"missing media dir", ImportRequest{XlsxPath: xlsxPath, MediaRoot: filepath.Join(media, "nope"), Identifier: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Import(tc.req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	// Validation failures happen before the run is opened.
	var runs int64
	db.Model(&model.ImportRun{}).Count(&runs)
	if runs != 0 {
		t.Errorf("runs = %d, validation must not open a ledger entry", runs)
	}
}

func TestImportWarnsOnMissingCategories(t *testing.T) {
	db := openTestDB(t)
	svc := newTestImportService(db)

	row := singleChoiceRow(7)
	row["J"] = " , "
	if _, err := svc.Import(ImportRequest{
		XlsxPath:   writeQuestionWorkbook(t, row),
		MediaRoot:  writeMediaDir(t),
		Identifier: "2026-12",
	}); err != nil {
		t.Fatalf("Import: %v", err)
	}

	run := lastRun(t, db)
	if run.Status != model.ImportCompletedWithWarnings {
		t.Errorf("run status = %s", run.Status)
	}
	if !hasIssue(run, model.IssueMissingCategories) {
		t.Errorf("issues = %v, want missing_categories", issueCodes(run))
	}
	var links int64
	db.Model(&model.QuestionCategory{}).Count(&links)
	if links != 0 {
		t.Errorf("category links = %d, want none", links)
	}
}
