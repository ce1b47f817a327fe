package mylang

import "sort"

// EditDistance is the Levenshtein distance between s1 and s2, computed over
// two rolling rows. Without replacements a changed byte costs a deletion
// plus an insertion. With a nonzero maxEditDistance the scan stops as soon as
// every cell of a row exceeds it and returns maxEditDistance+1.
func EditDistance(s1 string, s2 string, allowReplacements bool, maxEditDistance int) int {
	prev := make([]int, len(s2)+1)
	cur := make([]int, len(s2)+1)
	for x := range prev {
		prev[x] = x
	}

	replaceCost := 2
	if allowReplacements {
		replaceCost = 1
	}
	for y := 1; y <= len(s1); y++ {
		cur[0] = y
		rowMin := y
		for x := 1; x <= len(s2); x++ {
			diagonal := prev[x-1]
			if s1[y-1] != s2[x-1] {
				diagonal += replaceCost
			}
			cur[x] = min(diagonal, prev[x]+1, cur[x-1]+1)
			rowMin = min(rowMin, cur[x])
		}
		if maxEditDistance != 0 && rowMin > maxEditDistance {
			return maxEditDistance + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(s2)]
}

// Suggestion is a candidate spelling and its distance from the input.
type Suggestion struct {
	Word     string
	Distance int
}

const kMaxValidEditDistance = 3

// / Candidates within kMaxValidEditDistance of |text|, closest first; equally
// / close words keep their order in |words|.
func Suggest(text string, words ...string) []Suggestion {
	var found []Suggestion
	for _, word := range words {
		distance := EditDistance(word, text, true, kMaxValidEditDistance)
		if distance <= kMaxValidEditDistance {
			found = append(found, Suggestion{word, distance})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Distance < found[j].Distance
	})
	return found
}

// / Given a misspelled string and a list of correct spellings, returns
// / the closest match or "" if there is no close enough match.
func SpellcheckString(text string, words ...string) string {
	found := Suggest(text, words...)
	if len(found) == 0 {
		return ""
	}
	return found[0].Word
}

// / The closest words, all at the same distance, as "'a'", "'a' or 'b'" or
// / "'a', 'b' or 'c'"; "" when nothing is close.
func DidYouMean(text string, words ...string) string {
	found := Suggest(text, words...)
	var best []string
	for _, s := range found {
		if s.Distance != found[0].Distance {
			break
		}
		best = append(best, "'"+s.Word+"'")
	}
	return joinOr(best)
}
