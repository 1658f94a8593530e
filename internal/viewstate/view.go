package viewstate

// View is one of the three mutually exclusive panels.
type View int

const (
	ViewWelcome View = iota
	ViewCreateForm
	ViewDetails
)

func (v View) String() string {
	switch v {
	case ViewWelcome:
		return "welcome"
	case ViewCreateForm:
		return "create-form"
	case ViewDetails:
		return "details"
	default:
		return "unknown"
	}
}

// Views lists every view in display order.
var Views = []View{ViewWelcome, ViewCreateForm, ViewDetails}
