package checkout

// State is where a checkout attempt currently is.
type State int

const (
	Idle State = iota
	Loading
	ShowingEmbeddedForm
	Redirecting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case ShowingEmbeddedForm:
		return "showing_embedded_form"
	case Redirecting:
		return "redirecting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Purchase is what the buy button submits. Amount is in paise.
type Purchase struct {
	ProgramID   string
	Amount      int64
	Name        string
	Description string
}

// Snapshot is a copy of the controller's state for rendering.
type Snapshot struct {
	State        State
	Error        string
	SessionID    string
	ClientSecret string
	RedirectURL  string
	// SuccessURL is the page to navigate to once State is Succeeded.
	SuccessURL string
}

// ButtonDisabled reports whether the purchase control must be disabled.
func (s Snapshot) ButtonDisabled() bool {
	return s.State == Loading || s.State == Redirecting || s.State == Succeeded
}
