package index

import (
	"time"

	"github.com/starford/promptdeck/internal/checksum"
	"github.com/starford/promptdeck/internal/models"
	"github.com/starford/promptdeck/internal/parser"
)

// File types produced by ingestion.
const (
	FileTypePage    = "page"
	FileTypeMaster  = "master"
	FileTypeSkipped = "skipped"
)

// IngestResult describes what a single file produced.
type IngestResult struct {
	Type   string
	Target string
}

// IngestFile parses one prompt file and persists the outcome:
//   - master prompt files are upserted by their resolved target path
//   - section-bearing files replace their page wholesale
//   - files with zero sections are not prompt files; any stale records
//     they previously produced are removed
func IngestFile(db *DB, relPath string, data []byte) (IngestResult, error) {
	content := string(data)
	cs := checksum.Sum(data)
	target := parser.ResolveTargetFile(content, relPath)

	if parser.IsMasterPrompt(relPath, content) {
		fields := parser.ParseMasterPrompt(content)
		err := db.UpsertMasterPrompt(models.MasterPrompt{
			PageFilePath:    target,
			FilePath:        relPath,
			Checksum:        cs,
			NLPInstruction:  fields.NLPInstruction,
			SectionsSummary: fields.SectionsSummary,
			QueryExamples:   fields.QueryExamples,
			UpdatedAt:       time.Now(),
		})
		if err != nil {
			return IngestResult{}, err
		}
		return IngestResult{Type: FileTypeMaster, Target: target}, nil
	}

	sections := parser.ParseSections(content)
	if len(sections) == 0 {
		// Not a prompt file. Drop anything a previous revision persisted.
		if err := db.DeleteFile(relPath); err != nil {
			return IngestResult{}, err
		}
		return IngestResult{Type: FileTypeSkipped, Target: target}, nil
	}

	err := db.ReplacePage(models.Page{
		FilePath:   relPath,
		TargetFile: target,
		Checksum:   cs,
		Sections:   sections,
		UpdatedAt:  time.Now(),
	})
	if err != nil {
		return IngestResult{}, err
	}
	return IngestResult{Type: FileTypePage, Target: target}, nil
}
