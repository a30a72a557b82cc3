package simulate

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

var facts = []string{
	"Honey never spoils; edible honey has been found in ancient Egyptian tombs.",
	"Octopuses have three hearts.",
	"A day on Venus is longer than a year on Venus.",
	"Bananas are berries, but strawberries are not.",
	"The Eiffel Tower can be about 15 cm taller during hot days.",
}

// draft produces the initial output of a participant.
func draft(p domain.Participant, query string, selected []string) string {
	switch p.Specialty {
	case "Math":
		return "Parsed arithmetic expression: " + query
	case "Science Dictionary":
		return "(Science) researched: " + query
	case "Random Facts":
		if contains(selected, "Model B") || contains(selected, "Model E") {
			return "Fetched a topical fact."
		}
		return "Fetched a random fact."
	case "News":
		return "Top headlines:\n" + headlines(query)
	case "Music":
		return "Top tracks:\n" + tracks(query)
	default:
		return "No output for this participant."
	}
}

// refine produces the final output of a participant.
func refine(p domain.Participant, query string) string {
	switch p.Specialty {
	case "Math":
		v, err := evalArithmetic(query)
		if err != nil {
			return "Could not compute a numeric result."
		}
		return "Computed result = " + formatNumber(v)
	case "Science Dictionary":
		return fmt.Sprintf("%s: no simulated article beyond a short summary.\n\n(Checked for obvious contradictions.)", query)
	case "Random Facts":
		return pick(facts, query)
	case "News":
		return "Curated headlines:\n" + headlines(query)
	case "Music":
		return "Playlist suggestion:\n" + tracks(query)
	default:
		return "No output for this participant."
	}
}

// synthesize merges final outputs the way the backend does: a fixed prefix
// followed by the first 140 characters of each final output.
func synthesize(outputs []domain.ParticipantOutput) string {
	parts := make([]string, 0, len(outputs))
	for _, o := range outputs {
		parts = append(parts, truncateRunes(o.FinalOutput, 140))
	}
	return "Final combined answer: " + strings.Join(parts, " ")
}

func headlines(query string) string {
	return strings.Join([]string{
		fmt.Sprintf("- %s: what we know so far (Simulated Wire)", query),
		fmt.Sprintf("- Experts weigh in on %s (Simulated Times)", query),
		fmt.Sprintf("- %s explained in five charts (Simulated Post)", query),
	}, "\n")
}

func tracks(query string) string {
	return strings.Join([]string{
		fmt.Sprintf("- %s Overture by Simulated Ensemble (Demo Sessions)", query),
		fmt.Sprintf("- Songs About %s by The Placeholders (Mock Album)", query),
	}, "\n")
}

func pick(options []string, key string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return options[int(h.Sum32()%uint32(len(options)))]
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
