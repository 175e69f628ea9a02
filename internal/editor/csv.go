package editor

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// ParsedSection is a tree fragment produced by CSV import, merged into a
// draft with Merge.
type ParsedSection struct {
	Name      string
	Questions []ParsedQuestion
}

type ParsedQuestion struct {
	Text          string
	Type          string
	Marks         float64
	NegativeMarks float64
	Options       []ParsedOption
	CorrectNumber *float64
	ImageRequired bool
}

type ParsedOption struct {
	Text      string
	IsCorrect bool
}

// Column layout:
//
//	section,question,type,option1,option2,option3,option4,correct,marks,negative_marks,image_required
//
// "correct" is a 1-based option index, or a comma-free list like "1|3"
// for multiple choice, or the numeric answer for numerical questions.
func ParseCSV(data []byte) ([]ParsedSection, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV must have a header and at least one row")
	}

	secMap := make(map[string]*ParsedSection)
	var order []string

	for _, row := range records[1:] {
		if len(row) < 8 {
			continue
		}
		secName := strings.TrimSpace(row[0])
		text := strings.TrimSpace(row[1])
		if text == "" {
			continue
		}
		if secName == "" {
			secName = "Imported"
		}

		qType := strings.TrimSpace(row[2])
		if qType == "" {
			qType = QuestionTypeSingle
		}

		q := ParsedQuestion{
			Text:  text,
			Type:  qType,
			Marks: 1,
		}
		correct := strings.TrimSpace(row[7])

		if qType == QuestionTypeNumerical {
			if n, err := strconv.ParseFloat(correct, 64); err == nil {
				q.CorrectNumber = &n
			}
		} else {
			correctIdx := make(map[int]bool)
			for _, piece := range strings.Split(correct, "|") {
				if n, err := strconv.Atoi(strings.TrimSpace(piece)); err == nil {
					correctIdx[n] = true
				}
			}
			for i := 0; i < 4; i++ {
				optText := strings.TrimSpace(row[3+i])
				if optText == "" {
					continue
				}
				q.Options = append(q.Options, ParsedOption{
					Text:      optText,
					IsCorrect: correctIdx[i+1],
				})
			}
			if len(q.Options) < minOptionCount {
				continue
			}
		}

		if len(row) > 8 {
			if m, err := strconv.ParseFloat(strings.TrimSpace(row[8]), 64); err == nil && m > 0 {
				q.Marks = m
			}
		}
		if len(row) > 9 {
			if m, err := strconv.ParseFloat(strings.TrimSpace(row[9]), 64); err == nil {
				q.NegativeMarks = m
			}
		}
		if len(row) > 10 {
			q.ImageRequired = parseBool(row[10])
		}

		sec, ok := secMap[secName]
		if !ok {
			sec = &ParsedSection{Name: secName}
			secMap[secName] = sec
			order = append(order, secName)
		}
		sec.Questions = append(sec.Questions, q)
	}

	result := make([]ParsedSection, 0, len(order))
	for _, name := range order {
		result = append(result, *secMap[name])
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no importable questions found")
	}
	return result, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// Merge appends parsed sections to the draft as fresh local nodes and
// returns the number of questions added.
func (d *ExamDraft) Merge(sections []ParsedSection) int {
	added := 0
	for _, ps := range sections {
		sec := d.AddSection(ps.Name)
		for _, pq := range ps.Questions {
			q := &Question{
				Key:           newKey(),
				Type:          pq.Type,
				Text:          pq.Text,
				Marks:         pq.Marks,
				NegativeMarks: pq.NegativeMarks,
				Order:         len(sec.Questions) + 1,
				CorrectNumber: pq.CorrectNumber,
				ImageRequired: pq.ImageRequired,
			}
			for i, po := range pq.Options {
				q.Options = append(q.Options, &Option{
					Key:       newKey(),
					Text:      po.Text,
					IsCorrect: po.IsCorrect,
					Order:     i + 1,
				})
			}
			sec.Questions = append(sec.Questions, q)
			added++
		}
	}
	return added
}
