package service

import (
	"github.com/mmynk/republica/internal/ledger"
	"github.com/mmynk/republica/internal/models"
	"github.com/mmynk/republica/pkg/api"
)

func toNotice(n ledger.Notice) api.Notice {
	return api.Notice{Level: string(n.Level), Message: n.Message}
}

func noticeResponse(n ledger.Notice) *api.NoticeResponse {
	return &api.NoticeResponse{Notice: toNotice(n), Redirect: dashboardPath}
}

func toUser(u *models.User) *api.User {
	if u == nil {
		return nil
	}
	return &api.User{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Nickname:          u.Nickname,
		HouseholdID:       u.HouseholdID,
		AssociationStatus: string(u.AssociationStatus),
		CreatedAt:         u.CreatedAt,
	}
}

func toUsers(users []*models.User) []*api.User {
	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = toUser(u)
	}
	return out
}

func toHousehold(h *models.Household) *api.Household {
	if h == nil {
		return nil
	}
	return &api.Household{
		ID:        h.ID,
		Name:      h.Name,
		AdminID:   h.AdminID,
		CreatedAt: h.CreatedAt,
	}
}

func toBill(b *models.Bill) *api.Bill {
	return &api.Bill{
		ID:            b.ID,
		HouseholdID:   b.HouseholdID,
		Name:          b.Name,
		Total:         b.Total.StringFixed(2),
		DueDate:       b.DueDate.Format(models.DateLayout),
		Type:          string(b.Type),
		ResponsibleID: b.ResponsibleID,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
	}
}

func toShare(s *models.BillShare) *api.Share {
	return &api.Share{
		ID:            s.ID,
		BillID:        s.BillID,
		UserID:        s.UserID,
		Amount:        s.Amount.StringFixed(2),
		PaymentStatus: string(s.PaymentStatus),
	}
}

func toShareDetail(d *models.ShareDetail) *api.Share {
	share := toShare(&d.Share)
	share.Username = d.Username
	share.Nickname = d.Nickname
	share.Bill = toBill(&d.Bill)
	return share
}
