package entity

type FlashType string

const (
	FlashInfo    FlashType = "info"
	FlashSuccess FlashType = "success"
	FlashWarning FlashType = "warning"
	FlashDanger  FlashType = "danger"
)

// FlashMessage survives exactly one redirect.
type FlashMessage struct {
	Type    FlashType `json:"type"`
	Message string    `json:"message"`
}
