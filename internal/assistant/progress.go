package assistant

// Progress receives status updates while a turn runs. Implementations are
// called from the goroutine running the turn.
type Progress interface {
	QueryRewritten(query string)
	ScrapeStarted(i, n int, url string)
	ScrapeFinished(i, n int, url string, ok bool)
	Warning(component string, msg string)
}

type NopProgress struct{}

func (NopProgress) QueryRewritten(string) {}

func (NopProgress) ScrapeStarted(int, int, string) {}

func (NopProgress) ScrapeFinished(int, int, string, bool) {}

func (NopProgress) Warning(string, string) {}

func progressOrNop(p Progress) Progress {
	if p == nil {
		return NopProgress{}
	}
	return p
}
