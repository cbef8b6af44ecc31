package domain

// ConsentForm is a versioned consent document.
type ConsentForm struct {
	ID            ID     `json:"id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Version       string `json:"version"`
	Active        bool   `json:"active"`
	EffectiveDate string `json:"effectiveDate"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// UserConsent records that a user signed a form.
type UserConsent struct {
	ID                 ID     `json:"id"`
	UserID             ID     `json:"userId"`
	ConsentFormID      ID     `json:"consentFormId"`
	ConsentFormTitle   string `json:"consentFormTitle"`
	ConsentFormVersion string `json:"consentFormVersion"`
	ConsentDate        string `json:"consentDate"`
	IPAddress          string `json:"ipAddress"`
	UserAgent          string `json:"userAgent"`
	CreatedAt          string `json:"createdAt,omitempty"`
}

// SignConsentRequest signs a consent form.
type SignConsentRequest struct {
	ConsentFormID ID     `json:"consentFormId" validate:"required"`
	IPAddress     string `json:"ipAddress"`
	UserAgent     string `json:"userAgent"`
}
