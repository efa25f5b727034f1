package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bridgeskills/bridgeskills/internal/profile"
)

// DefaultChunkSize is the character budget of one resume chunk.
const DefaultChunkSize = 15000

// Chunk splits text into pieces of at most size characters, breaking on
// whitespace when possible. A word longer than size is split hard.
func Chunk(text string, size int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if utf8.RuneCountInString(text) <= size {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, strings.TrimSpace(string(runes)))
			break
		}

		cut := size
		for i := size; i > 0; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}

		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			chunks = append(chunks, piece)
		}
		runes = []rune(strings.TrimLeftFunc(string(runes[cut:]), unicode.IsSpace))
	}
	return chunks
}

// Merge combines records produced from separate chunks. Skills are unioned
// keeping the first spelling, lists are concatenated in order and each military
// field takes the first non-empty value.
func Merge(parts ...profile.ExtractedData) profile.ExtractedData {
	var out profile.ExtractedData
	seen := map[string]struct{}{}

	for _, p := range parts {
		mi := &out.MilitaryInfo
		mi.ServiceType = firstNonEmpty(mi.ServiceType, p.MilitaryInfo.ServiceType)
		mi.Rank = firstNonEmpty(mi.Rank, p.MilitaryInfo.Rank)
		mi.Branch = firstNonEmpty(mi.Branch, p.MilitaryInfo.Branch)
		mi.MOS = firstNonEmpty(mi.MOS, p.MilitaryInfo.MOS)

		for _, s := range p.Skills {
			key := strings.ToLower(strings.TrimSpace(s))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out.Skills = append(out.Skills, strings.TrimSpace(s))
		}

		c := p.Clone()
		out.TechnicalSkills = append(out.TechnicalSkills, c.TechnicalSkills...)
		out.Certifications = append(out.Certifications, c.Certifications...)
		out.Experience = append(out.Experience, c.Experience...)
		out.Education = append(out.Education, c.Education...)
	}
	return out
}

func firstNonEmpty(current, candidate string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	return strings.TrimSpace(candidate)
}
