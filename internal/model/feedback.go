package model

import "time"

// Feedback is a message left by a visitor or a registered user
type Feedback struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Text      string    `json:"text" bson:"text"`
	UserID    *string   `json:"userId" bson:"userId"` // Nil for anonymous feedback
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// OwnedBy reports whether the feedback was left by userID.
func (f *Feedback) OwnedBy(userID string) bool {
	return f.UserID != nil && *f.UserID == userID
}

func (f Feedback) SearchText() []string {
	return []string{f.Name, f.Text}
}

func (f Feedback) SortKey(field string) string {
	switch field {
	case "id":
		return f.ID
	case "name":
		return f.Name
	case "text":
		return f.Text
	case "userId":
		if f.UserID != nil {
			return *f.UserID
		}
		return ""
	case "status":
		return f.Status
	case "createdAt":
		return timeKey(f.CreatedAt)
	case "updatedAt":
		return timeKey(f.UpdatedAt)
	}
	return ""
}

// CreateFeedbackRequest is used for leaving new feedback
type CreateFeedbackRequest struct {
	Name string `json:"name" binding:"required"`
	Text string `json:"text" binding:"required"`
}

type UpdateFeedbackRequest struct {
	Name   *string `json:"name,omitempty"`
	Text   *string `json:"text,omitempty"`
	Status *string `json:"status,omitempty" binding:"omitempty,oneof=active blocked"`
}

// Stats holds the admin dashboard counters
type Stats struct {
	TotalUsers       int `json:"totalUsers"`
	ActiveUsers      int `json:"activeUsers"`
	BlockedUsers     int `json:"blockedUsers"`
	AdminUsers       int `json:"adminUsers"`
	TotalFeedbacks   int `json:"totalFeedbacks"`
	ActiveFeedbacks  int `json:"activeFeedbacks"`
	BlockedFeedbacks int `json:"blockedFeedbacks"`
}
