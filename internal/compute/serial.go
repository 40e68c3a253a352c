package compute

// SerialBackend runs every work item on the calling goroutine in index order.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (SerialBackend) Name() string { return "serial" }
func (SerialBackend) Workers() int { return 1 }

func (SerialBackend) For(n int, fn func(i int)) {
	for i := 0; i < n; i++ {
		fn(i)
	}
}

func (SerialBackend) Grid(nx, ny int, fn func(x, y int)) {
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			fn(x, y)
		}
	}
}
