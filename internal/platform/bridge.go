package platform

// User is the identity handed over by the host platform. The zero value means
// the host did not supply one and remote sync must be skipped.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (u User) Known() bool {
	return u.ID != ""
}

// Haptics mirrors the host bridge feedback triggers. The core fires these on
// gameplay events; hosts without haptics plug in NoopHaptics.
type Haptics interface {
	ImpactLight()
	ImpactMedium()
	NotifySuccess()
	SelectionChanged()
}

// Viewport carries the host shell signals sent once on startup.
type Viewport interface {
	Expand()
	Ready()
}

type NoopHaptics struct{}

func (NoopHaptics) ImpactLight()      {}
func (NoopHaptics) ImpactMedium()     {}
func (NoopHaptics) NotifySuccess()    {}
func (NoopHaptics) SelectionChanged() {}

type NoopViewport struct{}

func (NoopViewport) Expand() {}
func (NoopViewport) Ready()  {}
