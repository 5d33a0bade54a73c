package diag

// Severity ranks a diagnostic. Anything at SevError makes the script
// that produced it fail to build; warnings and infos are advisory and
// never affect the exit code.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}
