package utils

// Guard runs a cleanup when a function that allocated a resource fails part way through, and skips it once
// the function declares success:
//
//	guard := NewGuard(func() { RemoveFileNoError(tmp) })
//	defer guard.OnFail()
//	if err := write(tmp); err != nil { return err }
//	guard.Success()
type Guard struct {
	OnFail  func()
	success bool
}

// NewGuard returns a Guard that calls onFailCleanup from OnFail unless Success was called first.
func NewGuard(onFailCleanup func()) *Guard {
	ret := &Guard{}
	ret.OnFail = func() {
		if !ret.success {
			onFailCleanup()
		}
	}
	return ret
}

// Success marks the guarded function as having succeeded.
func (guard *Guard) Success() {
	guard.success = true
}
