package domain

// PersonalDataForm is the intake form captured at a client's first
// interview. Enumerated fields carry the backend's constant names, e.g.
// PERSONAL_BEREAVEMENT or FINANCIAL_HARDSHIP_LOAN for counseling reasons.
type PersonalDataForm struct {
	ID                      ID       `json:"id"`
	ClientFileNo            string   `json:"clientFileNo"`
	ClientID                ID       `json:"clientId"`
	ClientName              string   `json:"clientName"`
	DateOfInterview         string   `json:"dateOfInterview"`
	Gender                  string   `json:"gender"`
	YearOfBirth             int      `json:"yearOfBirth"`
	School                  string   `json:"school"`
	ComputerNo              string   `json:"computerNo"`
	YearOfStudy             int      `json:"yearOfStudy"`
	Occupation              string   `json:"occupation"`
	ContactAddress          string   `json:"contactAddress"`
	PhoneNumber             string   `json:"phoneNumber"`
	MaritalStatus           string   `json:"maritalStatus"`
	PreviousCounseling      []string `json:"previousCounseling"`
	OtherPreviousCounseling string   `json:"otherPreviousCounseling"`
	ReferralSources         []string `json:"referralSources"`
	OtherReferralSource     string   `json:"otherReferralSource"`
	CounselingReasons       []string `json:"counselingReasons"`
	OtherCounselingReason   string   `json:"otherCounselingReason"`
	FamilyMembers           []string `json:"familyMembers"`
	GoodHealth              bool     `json:"goodHealth"`
	HealthCondition         string   `json:"healthCondition"`
	TakingMedication        bool     `json:"takingMedication"`
	MedicationDetails       string   `json:"medicationDetails"`
	AdditionalInformation   string   `json:"additionalInformation"`
	CreatedAt               string   `json:"createdAt,omitempty"`
	UpdatedAt               string   `json:"updatedAt,omitempty"`
}

// PersonalDataFormRequest creates or replaces a client's intake form.
type PersonalDataFormRequest struct {
	ClientFileNo            string   `json:"clientFileNo,omitempty"`
	DateOfInterview         string   `json:"dateOfInterview" validate:"required"`
	Gender                  string   `json:"gender" validate:"required,oneof=MALE FEMALE OTHER PREFER_NOT_TO_SAY"`
	YearOfBirth             int      `json:"yearOfBirth" validate:"required,gte=1900,lte=2100"`
	School                  string   `json:"school,omitempty"`
	ComputerNo              string   `json:"computerNo,omitempty"`
	YearOfStudy             int      `json:"yearOfStudy,omitempty" validate:"omitempty,gte=1,lte=10"`
	Occupation              string   `json:"occupation,omitempty"`
	ContactAddress          string   `json:"contactAddress,omitempty"`
	PhoneNumber             string   `json:"phoneNumber,omitempty"`
	MaritalStatus           string   `json:"maritalStatus,omitempty" validate:"omitempty,oneof=SINGLE MARRIED DIVORCED SEPARATED WIDOWED LIVING_TOGETHER"`
	PreviousCounseling      []string `json:"previousCounseling,omitempty" validate:"dive,oneof=UNIVERSITY_COUNSELING SUBJECT_COUNSELOR OTHER NONE"`
	OtherPreviousCounseling string   `json:"otherPreviousCounseling,omitempty"`
	ReferralSources         []string `json:"referralSources,omitempty" validate:"dive,oneof=SELF SUBJECT_COUNSELOR FRIEND PARTNER FAMILY_MEMBER HEALTH_WORKER OTHER"`
	OtherReferralSource     string   `json:"otherReferralSource,omitempty"`
	CounselingReasons       []string `json:"counselingReasons,omitempty"`
	OtherCounselingReason   string   `json:"otherCounselingReason,omitempty"`
	FamilyMembers           []string `json:"familyMembers,omitempty"`
	GoodHealth              *bool    `json:"goodHealth,omitempty"`
	HealthCondition         string   `json:"healthCondition,omitempty"`
	TakingMedication        *bool    `json:"takingMedication,omitempty"`
	MedicationDetails       string   `json:"medicationDetails,omitempty"`
	AdditionalInformation   string   `json:"additionalInformation,omitempty"`
}
