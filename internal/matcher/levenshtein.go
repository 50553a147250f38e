package matcher

// Distance returns the Levenshtein edit distance between a and b with
// unit insert/delete/substitute costs. Rune-aware. A single rolling row
// over the shorter string keeps memory at O(min(len(a), len(b))).
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		prev := i
		for j := 1; j <= len(rb); j++ {
			cost := row[j-1]
			if ra[i-1] != rb[j-1] {
				cost++ // substitute
				if row[j]+1 < cost {
					cost = row[j] + 1 // delete
				}
				if prev+1 < cost {
					cost = prev + 1 // insert
				}
			}
			row[j-1] = prev
			prev = cost
		}
		row[len(rb)] = prev
	}
	return row[len(rb)]
}
