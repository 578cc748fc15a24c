package handlers

import (
	"net/http"
	"os"

	"github.com/appletreemkt/purchases_backend/utils"
	"github.com/gin-gonic/gin"
)

type loginInput struct {
	Pin string `json:"pin" binding:"required"`
}

// Login exchanges the store PIN for a bearer token. The PIN lives in the
// environment: APP_PIN_HASH (bcrypt) in production, APP_PIN as a plain
// dev fallback.
func Login(c *gin.Context) {
	var input loginInput
	if !bindJSON(c, &input) {
		return
	}

	if !pinMatches(input.Pin) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid PIN"})
		return
	}

	token, err := utils.JwtGenerate(1, "admin")
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func pinMatches(pin string) bool {
	if hash := os.Getenv("APP_PIN_HASH"); hash != "" {
		return utils.ComparePassword(hash, pin) == nil
	}
	if plain := os.Getenv("APP_PIN"); plain != "" {
		return plain == pin
	}
	return false
}
