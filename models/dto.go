package models

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ArticleListParams struct {
	Type      string `form:"type"`
	Starred   *bool  `form:"starred"`
	Search    string `form:"search"`
	From      string `form:"from"`
	To        string `form:"to"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	SortBy    string `form:"sort_by,default=date_published"`
	SortOrder string `form:"sort_order,default=desc"`
}

type UploadArticleRequest struct {
	Title         string `json:"title" binding:"required,min=1,max=255"`
	Link          string `json:"link"`
	Text          string `json:"text"`
	PDFBase64     string `json:"pdf_base64"`
	DatePublished string `json:"date_published"`
}

type ImportArticleRequest struct {
	URL           string `json:"url" binding:"required,url"`
	DatePublished string `json:"date_published"`
}

type RateArticleRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=10"`
	Review string `json:"review"`
}

type GenerateSummaryRequest struct {
	Date string `json:"date" binding:"required"`
}

type CreateOrganizationRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=255"`
	CompanyContext string `json:"company_context"`
}

type UpdateOrganizationRequest struct {
	Name           *string `json:"name"`
	CompanyContext *string `json:"company_context"`
	IsActive       *bool   `json:"is_active"`
}

type CreateUserRequest struct {
	Username       string `json:"username" binding:"required,min=3,max=50"`
	Password       string `json:"password" binding:"required,min=6"`
	FullName       string `json:"full_name"`
	Email          string `json:"email" binding:"required,email"`
	OrganizationID uint   `json:"organization_id" binding:"required"`
}

type UpdateUserRequest struct {
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}
