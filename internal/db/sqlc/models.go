package sqlcgen

type Category struct {
	ID   int64
	Type string
}

type Question struct {
	ID         int64
	Question   string
	Answer     string
	Difficulty int32
	Category   int64
}
