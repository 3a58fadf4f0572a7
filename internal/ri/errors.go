package ri

// ErrorKind classifies a recoverable stream condition surfaced through a
// Reporter. Reporting never alters dispatch control flow.
type ErrorKind uint8

const (
	ErrBadHandle ErrorKind = iota + 1 // reference to a name never recorded
	ErrLimit                          // resource ceiling hit, work abandoned
)

func (k ErrorKind) String() string {
	switch k {
	case ErrBadHandle:
		return "bad_handle"
	case ErrLimit:
		return "limit"
	default:
		return "unknown"
	}
}

// Reporter receives recoverable stream conditions. Implementations must not
// panic and must tolerate reentrant calls from replayed streams.
type Reporter interface {
	Report(kind ErrorKind, msg string)
}

// NopReporter discards every report.
type NopReporter struct{}

func (NopReporter) Report(ErrorKind, string) {}
