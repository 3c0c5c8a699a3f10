package api

// Notice is the message shown to the resident after an action.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NoticeResponse answers RPCs whose only result is a notice.
type NoticeResponse struct {
	Notice   Notice `json:"notice"`
	Redirect string `json:"redirect,omitempty"`
}

type User struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email,omitempty"`
	Nickname          string `json:"nickname,omitempty"`
	HouseholdID       string `json:"householdId,omitempty"`
	AssociationStatus string `json:"associationStatus"`
	CreatedAt         int64  `json:"createdAt"`
}

type Household struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AdminID   string `json:"adminId"`
	CreatedAt int64  `json:"createdAt"`
}

// Bill amounts are decimal strings with two places; due dates are YYYY-MM-DD.
type Bill struct {
	ID            string `json:"id"`
	HouseholdID   string `json:"householdId"`
	Name          string `json:"name"`
	Total         string `json:"total"`
	DueDate       string `json:"dueDate"`
	Type          string `json:"type"`
	ResponsibleID string `json:"responsibleId"`
	Status        string `json:"status"`
	CreatedAt     int64  `json:"createdAt"`
}

// Share is one resident's part of a bill. Bill and the user fields are
// filled where the share is listed outside its bill.
type Share struct {
	ID            string `json:"id"`
	BillID        string `json:"billId"`
	UserID        string `json:"userId"`
	Amount        string `json:"amount"`
	PaymentStatus string `json:"paymentStatus"`
	Username      string `json:"username,omitempty"`
	Nickname      string `json:"nickname,omitempty"`
	Bill          *Bill  `json:"bill,omitempty"`
	Overdue       bool   `json:"overdue,omitempty"`
}

// Auth

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User     *User  `json:"user"`
	Token    string `json:"token"`
	Notice   Notice `json:"notice"`
	Redirect string `json:"redirect,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	Redirect  string `json:"redirect,omitempty"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User      *User      `json:"user"`
	Household *Household `json:"household,omitempty"`
}

type DeleteAccountRequest struct{}

// Households

type CreateHouseholdRequest struct {
	Name string `json:"name"`
}

type CreateHouseholdResponse struct {
	Household *Household `json:"household"`
	Notice    Notice     `json:"notice"`
	Redirect  string     `json:"redirect,omitempty"`
}

// ListHouseholdsRequest pages start at 1.
type ListHouseholdsRequest struct {
	Query string `json:"query,omitempty"`
	Page  int    `json:"page,omitempty"`
}

type ListHouseholdsResponse struct {
	Households []*Household `json:"households"`
	Page       int          `json:"page"`
	HasNext    bool         `json:"hasNext"`
}

type RequestJoinRequest struct {
	HouseholdID string `json:"householdId"`
}

type ApproveMemberRequest struct {
	UserID string `json:"userId"`
}

type RejectMemberRequest struct {
	UserID string `json:"userId"`
}

type RemoveMemberRequest struct {
	UserID string `json:"userId"`
}

type ListEligibleParticipantsRequest struct{}

type ListEligibleParticipantsResponse struct {
	Users []*User `json:"users"`
}

// Bills

type CreateBillRequest struct {
	Name           string   `json:"name"`
	Total          string   `json:"total"`
	DueDate        string   `json:"dueDate"`
	Type           string   `json:"type,omitempty"`
	ParticipantIDs []string `json:"participantIds,omitempty"`
}

type CreateBillResponse struct {
	Bill     *Bill    `json:"bill"`
	Shares   []*Share `json:"shares"`
	Notice   Notice   `json:"notice"`
	Redirect string   `json:"redirect,omitempty"`
}

type DeleteBillRequest struct {
	BillID string `json:"billId"`
}

type MarkPaidRequest struct {
	ShareID string `json:"shareId"`
}

type ConfirmPaymentRequest struct {
	ShareID string `json:"shareId"`
}

type RejectPaymentRequest struct {
	ShareID string `json:"shareId"`
}

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	User                 *User      `json:"user"`
	Household            *Household `json:"household,omitempty"`
	Shares               []*Share   `json:"shares"`
	JoinRequests         []*User    `json:"joinRequests,omitempty"`
	PendingConfirmations []*Share   `json:"pendingConfirmations,omitempty"`
}
