package query

import (
	"bufio"
	"math/rand/v2"
	"os"
)

// FileBacked generates queries from a fixed catalog loaded from a
// file (one query per non-empty line), cycling through a shuffled
// permutation and reshuffling at each wrap-around. It reports the
// query's position in the *original* file order as its stable index,
// so repeated samples of the same query text accumulate under the
// same key even though the serving order is randomized each pass.
//
// A FileBacked instance is not safe for concurrent use; each reader
// worker owns its own instance.
type FileBacked struct {
	original []string
	indexOf  map[string]int
	perm     []string
	cursor   int
}

// NewFileBacked loads the catalog from path. Duplicate lines resolve
// to their first-occurrence index in the original file.
func NewFileBacked(path string) (*FileBacked, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var original []string
	indexOf := make(map[string]int)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if _, seen := indexOf[line]; !seen {
			indexOf[line] = len(original)
		}
		original = append(original, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	perm := make([]string, len(original))
	copy(perm, original)

	return &FileBacked{
		original: original,
		indexOf:  indexOf,
		perm:     perm,
	}, nil
}

func shuffle(s []string) {
	rand.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}

func (f *FileBacked) Next() (int, bool, string) {
	if f.cursor == 0 {
		shuffle(f.perm)
	}
	text := f.perm[f.cursor]
	f.cursor = (f.cursor + 1) % len(f.perm)
	return f.indexOf[text], true, text
}
