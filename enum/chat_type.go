package enum

type ChatType string

const (
	DIRECT ChatType = "direct"
	GROUP  ChatType = "group"
)
