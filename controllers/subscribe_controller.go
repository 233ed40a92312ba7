package controllers

import (
	"errors"
	"net/http"

	"github.com/felipepimentel/ai-news-digest/store"
	"github.com/felipepimentel/ai-news-digest/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type subscribeRequest struct {
	Email string `json:"email" binding:"required"`
}

// Subscribe upserts the address and confirms it straight away. The plain
// unsubscribe token is only ever returned here.
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	confirmToken, err := utils.NewToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	unsubToken := uuid.NewString()
	hashed, err := utils.HashToken(unsubToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.UpsertSubscriber(ctx, email, confirmToken, hashed); err != nil {
		logrus.WithError(err).Error("subscribing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not subscribe"})
		return
	}
	if err := h.store.ConfirmSubscriber(ctx, email, h.now().UTC()); err != nil {
		logrus.WithError(err).Error("confirming subscriber")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not subscribe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "You're subscribed! You'll receive the next digest.",
		"email":             email,
		"unsubscribe_token": unsubToken,
	})
}

type unsubscribeRequest struct {
	Email string `json:"email" binding:"required"`
	Token string `json:"token" binding:"required"`
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	sub, err := h.store.SubscriberByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).Warn("loading subscriber")
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "subscriber not found"})
		return
	}
	if !utils.CheckToken(req.Token, sub.UnsubToken) {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid unsubscribe token"})
		return
	}
	if err := h.store.DeleteSubscriber(ctx, sub.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed"})
}
