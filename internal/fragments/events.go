package fragments

import "github.com/JonMunkholm/examplan/internal/core"

// EventKind distinguishes page boundaries from text in the decoded stream.
type EventKind int

const (
	// PageStart opens a new page. Page is 1-based.
	PageStart EventKind = iota
	// Text carries one fragment of the current page.
	Text
)

// Event is one item of the decoded stream.
type Event struct {
	Kind     EventKind
	Page     int
	Fragment core.Fragment
}

// PageCollector translates an event stream into pages. Pages without any
// text are skipped. Text before the first page boundary belongs to an
// implicit first page.
type PageCollector struct {
	pages   []core.Page
	current core.Page
}

// Handle consumes one event. It never fails and has the signature of an
// emit callback.
func (c *PageCollector) Handle(ev Event) error {
	switch ev.Kind {
	case PageStart:
		c.flush()
	case Text:
		c.current = append(c.current, ev.Fragment)
	}
	return nil
}

// Pages flushes the current page and returns everything collected.
func (c *PageCollector) Pages() []core.Page {
	c.flush()
	return c.pages
}

func (c *PageCollector) flush() {
	if len(c.current) > 0 {
		c.pages = append(c.pages, c.current)
	}
	c.current = nil
}

// CollectPages translates a complete event slice into pages.
func CollectPages(events []Event) []core.Page {
	var c PageCollector
	for _, ev := range events {
		_ = c.Handle(ev)
	}
	return c.Pages()
}
