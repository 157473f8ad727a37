package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"EventReach/internal/metrics"
	"EventReach/internal/models"
	"EventReach/internal/tags"
)

type CheckInRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	SendEmail bool   `json:"send_email"`
}

type CheckInResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	IsNewUser bool   `json:"is_new_user"`
	EmailSent bool   `json:"email_sent"`
}

// CheckIn upserts the user keyed by email, tags them with the current event,
// records a check-in log row and optionally queues a welcome email.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx := r.Context()

	user, err := h.Store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	isNewUser := user == nil
	var message string

	if user != nil {
		user.Tags = tags.Encode(tags.Add(tags.Decode(user.Tags), h.EventName))
		// name/phone only overwrite when supplied, never with an empty value
		if req.Name != "" {
			user.Name = req.Name
		}
		if req.Phone != "" {
			user.Phone = req.Phone
		}
		if err := h.Store.UpdateUser(ctx, user); err != nil {
			h.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		message = "歡迎回來！已更新您的資料。"
	} else {
		user = &models.User{
			Email: req.Email,
			Name:  req.Name,
			Phone: req.Phone,
			Tags:  tags.Encode([]string{h.EventName}),
		}
		if err := h.Store.CreateUser(ctx, user); err != nil {
			h.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		message = "打卡成功！歡迎加入！"
	}

	checkIn := &models.CheckInLog{EventName: h.EventName, UserID: user.ID}
	if err := h.Store.CreateCheckInLog(ctx, checkIn); err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.CheckIns.Inc()

	emailSent := false
	if req.SendEmail {
		job := models.WelcomeEmailJob{UserID: user.ID, Email: user.Email, Name: user.Name}
		select {
		case h.Jobs <- job:
			// queued, not delivered; the response never waits on the send
			emailSent = true
		default:
			h.Log.Warn("welcome email queue full, dropping", zap.String("email", user.Email))
		}
	}

	h.respondJSON(w, http.StatusOK, CheckInResponse{
		Success:   true,
		Message:   message,
		IsNewUser: isNewUser,
		EmailSent: emailSent,
	})
}
