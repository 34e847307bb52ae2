package params

const (
	// StatParam is the statistical distance, in bits, tolerated when a uniform value
	// modulo the group order is derived from a wider uniform string.
	StatParam = 128
	StatBytes = StatParam / 8

	// MaxFieldBits bounds the size of any modulus handled by the field engine.
	MaxFieldBits  = 512
	MaxFieldBytes = MaxFieldBits / 8

	// MaxHashIterations bounds the number of candidates tried when mapping a basename to a point.
	MaxHashIterations = 256
)
