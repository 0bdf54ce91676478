package artist

// ApplyRequest is the body of an artist application.
type ApplyRequest struct {
	ArtistName string `json:"artistName" binding:"required,max=100"`
	Bio        string `json:"bio" binding:"max=2000"`
	CountryID  *uint  `json:"countryId" binding:"omitempty,min=1"`
}

// ReviewRequest is an admin decision. The optional fields override what
// the applicant submitted.
type ReviewRequest struct {
	Status     string  `json:"status" binding:"required,oneof=Approved Rejected"`
	ReviewerID uint    `json:"reviewerId" binding:"required,min=1"`
	ArtistName *string `json:"artistName" binding:"omitempty,min=1,max=100"`
	Bio        *string `json:"bio" binding:"omitempty,max=2000"`
	CountryID  *uint   `json:"countryId" binding:"omitempty,min=1"`
}
