package grading

import (
	"time"

	"github.com/yigit/gradesheet/internal/app/models"
	"github.com/yigit/gradesheet/internal/pkg/apperrors"
	"github.com/yigit/gradesheet/internal/pkg/spreadsheet"
)

// Rules bundles the alias table and validation policy used to build a batch.
type Rules struct {
	Aliases AliasTable
	Policy  Policy
}

// BuildBatch converts decoded rows into student records. It either returns the full,
// ordered batch or the first row error; nothing is partially returned.
func (r Rules) BuildBatch(rows []spreadsheet.Row, now time.Time) ([]models.StudentRecord, error) {
	if len(rows) == 0 {
		return nil, apperrors.ErrEmptyFile
	}

	aliases := r.Aliases
	if len(aliases) == 0 {
		aliases = DefaultAliases
	}

	batch := make([]models.StudentRecord, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, raw := range rows {
		position := i + 1

		normalized, err := aliases.Normalize(raw, position)
		if err != nil {
			return nil, err
		}
		row, err := r.Policy.Validate(normalized, position)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[row.StudentID]; dup {
			return nil, apperrors.NewDuplicateIDError(position, row.StudentID)
		}
		seen[row.StudentID] = position

		batch = append(batch, models.StudentRecord{
			StudentID:     row.StudentID,
			StudentName:   row.StudentName,
			TotalMarks:    row.Total,
			MarksObtained: row.Obtained,
			Percentage:    Percentage(row.Total, row.Obtained),
			CreatedAt:     now,
		})
	}

	return batch, nil
}
