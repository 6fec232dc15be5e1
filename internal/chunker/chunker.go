package chunker

import (
	"fmt"
)

// Config controls how documents are split.
type Config struct {
	// Size is the maximum characters (runes) per segment
	Size int

	// Overlap is the number of characters shared between consecutive
	// segments; must satisfy 0 <= Overlap < Size
	Overlap int
}

// DefaultConfig returns the defaults used for web content.
func DefaultConfig() Config {
	return Config{
		Size:    500,
		Overlap: 100,
	}
}

// Validate checks the config invariants.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("overlap must satisfy 0 <= overlap < size, got %d", c.Overlap)
	}
	return nil
}

// Segment is one bounded slice of the input text. Start and End are
// rune offsets into the original text; segments may overlap.
type Segment struct {
	Text  string
	Start int
	End   int
}

// Split divides text into an ordered sequence of segments covering the
// whole input with no gaps. Each segment after the first begins
// Size-Overlap runes into the previous one. Input no longer than Size
// (including empty input) yields exactly one segment equal to the
// input. Split is deterministic and side-effect-free.
func Split(text string, cfg Config) ([]Segment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	if len(runes) <= cfg.Size {
		return []Segment{{Text: text, Start: 0, End: len(runes)}}, nil
	}

	stride := cfg.Size - cfg.Overlap
	segments := make([]Segment, 0, (len(runes)+stride-1)/stride)

	for start := 0; start < len(runes); start += stride {
		end := start + cfg.Size
		if end > len(runes) {
			end = len(runes)
		}
		segments = append(segments, Segment{
			Text:  string(runes[start:end]),
			Start: start,
			End:   end,
		})
		if end == len(runes) {
			break
		}
	}

	return segments, nil
}
