//go:build !cgo

package native

func defaultAPI() API { return unavailable{} }

// unavailable is installed when the package is built without cgo. Every call
// panics: a backend library cannot reach the host without cgo, and tests are
// expected to install an in-memory host via Set.
type unavailable struct{}

func (unavailable) fail() {
	panic("native: host API requires cgo; install a test host with native.Set")
}

func (u unavailable) ModelName(Handle) (string, error)           { u.fail(); return "", nil }
func (u unavailable) ModelVersion(Handle) (uint64, error)        { u.fail(); return 0, nil }
func (u unavailable) ModelRepository(Handle) (string, error)     { u.fail(); return "", nil }
func (u unavailable) ModelConfig(Handle, uint32) (Handle, error) { u.fail(); return nil, nil }
func (u unavailable) ModelState(Handle) (uintptr, error)         { u.fail(); return 0, nil }
func (u unavailable) ModelSetState(Handle, uintptr) error        { u.fail(); return nil }
func (u unavailable) InstanceModel(Handle) (Handle, Handle)      { u.fail(); return nil, nil }

func (u unavailable) RequestID(Handle) (string, error)            { u.fail(); return "", nil }
func (u unavailable) RequestInput(Handle, string) (Handle, error) { u.fail(); return nil, nil }

func (u unavailable) InputProperties(Handle) (InputProperties, error) {
	u.fail()
	return InputProperties{}, nil
}

func (u unavailable) InputBuffer(Handle, uint32) ([]byte, uint32, error) {
	u.fail()
	return nil, 0, nil
}

func (u unavailable) ResponseNew(Handle) (Handle, error) { u.fail(); return nil, nil }

func (u unavailable) ResponseOutput(Handle, string, uint32, []int64) (Handle, error) {
	u.fail()
	return nil, nil
}

func (u unavailable) ResponseSend(Handle, uint32) error { u.fail(); return nil }
func (u unavailable) ResponseDelete(Handle) error       { u.fail(); return nil }

func (u unavailable) OutputBuffer(Handle, uint64) ([]byte, uint32, error) {
	u.fail()
	return nil, 0, nil
}

func (u unavailable) MessageSerializeToJSON(Handle) (string, error) { u.fail(); return "", nil }
func (u unavailable) MessageDelete(Handle) error                    { u.fail(); return nil }

func (u unavailable) ErrorNew(uint32, string) Handle { u.fail(); return nil }
func (u unavailable) ErrorCode(Handle) uint32        { u.fail(); return 0 }

func (u unavailable) LogIsEnabled(uint32) bool               { u.fail(); return false }
func (u unavailable) LogMessage(uint32, string, int, string) { u.fail() }
