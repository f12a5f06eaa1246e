package attendance

import "fmt"

// Outcome kinds, also used as metric labels.
const (
	KindClockedIn         = "clocked_in"
	KindClockedOut        = "clocked_out"
	KindTooSoon           = "too_soon"
	KindAlreadyClockedOut = "already_clocked_out"
)

// Outcome is the result of a scan. The set of implementations is closed:
// ClockedIn, ClockedOut, TooSoon and AlreadyClockedOut.
type Outcome interface {
	Kind() string
	Message() string
	Record() Record
	// Accepted reports whether the scan changed the stored record.
	Accepted() bool
	sealed()
}

type ClockedIn struct {
	Rec Record
}

type ClockedOut struct {
	Rec Record
}

type TooSoon struct {
	Rec              Record
	RemainingMinutes int
}

type AlreadyClockedOut struct {
	Rec Record
}

func (ClockedIn) Kind() string         { return KindClockedIn }
func (ClockedOut) Kind() string        { return KindClockedOut }
func (TooSoon) Kind() string           { return KindTooSoon }
func (AlreadyClockedOut) Kind() string { return KindAlreadyClockedOut }

func (ClockedIn) Message() string  { return "Clock-in successful" }
func (ClockedOut) Message() string { return "Clock-out recorded" }
func (o TooSoon) Message() string {
	return fmt.Sprintf("Please wait %d minute(s) before scanning again.", o.RemainingMinutes)
}
func (AlreadyClockedOut) Message() string { return "Already clocked out today" }

func (o ClockedIn) Record() Record         { return o.Rec }
func (o ClockedOut) Record() Record        { return o.Rec }
func (o TooSoon) Record() Record           { return o.Rec }
func (o AlreadyClockedOut) Record() Record { return o.Rec }

func (ClockedIn) Accepted() bool         { return true }
func (ClockedOut) Accepted() bool        { return true }
func (TooSoon) Accepted() bool           { return false }
func (AlreadyClockedOut) Accepted() bool { return false }

func (ClockedIn) sealed()         {}
func (ClockedOut) sealed()        {}
func (TooSoon) sealed()           {}
func (AlreadyClockedOut) sealed() {}

// KindUnknownEmployee labels scans whose code resolves to no employee.
const KindUnknownEmployee = "unknown_employee"
