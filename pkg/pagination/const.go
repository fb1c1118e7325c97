package pagination

const (
	PageDefaultSize = 20
	PageMaxSize     = 100
)
