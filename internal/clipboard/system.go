package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
)

// System talks to the real platform clipboard. The sidecar of the most
// recent Write is kept in memory and returned while the clipboard still
// holds that exact text.
type System struct {
	mu          sync.Mutex
	lastText    string
	lastMeta    *Meta
	haveSidecar bool
}

func NewSystem() (*System, error) {
	if clipboard.Unsupported {
		return nil, ErrUnavailable
	}
	return &System{}, nil
}

func (s *System) Read() (Content, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return Content{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := Content{Text: text}
	if s.haveSidecar && text == s.lastText {
		c.Meta = s.lastMeta
	}
	return c, nil
}

func (s *System) Write(c Content) error {
	if err := clipboard.WriteAll(c.Text); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastText = c.Text
	s.lastMeta = c.Meta
	s.haveSidecar = c.Meta != nil
	return nil
}
