package cli

import (
	"fmt"
	"io"
	"os"

	"rerank/internal/domain"
)

// collectPassages gathers passages from literal flags and from files, in
// that order. A file named "-" reads stdin. File contents are split by ch.
func collectPassages(literal, files []string, stdin io.Reader, ch domain.Chunker) ([]string, error) {
	passages := append([]string(nil), literal...)
	for _, f := range files {
		var data []byte
		var err error
		if f == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(f)
		}
		if err != nil {
			return nil, fmt.Errorf("read passages from %s: %w", f, err)
		}
		passages = append(passages, ch.Split(string(data))...)
	}
	return passages, nil
}
