package controllers

import (
	"net/http"

	"carropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// shopFromContext reads the tenant ID the auth middleware put on the request
// context. Handlers never consult ambient state for tenancy.
func shopFromContext(c *gin.Context) (uuid.UUID, bool) {
	shopID, exists := c.Get("shopId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Shop ID not found in context")
		return uuid.Nil, false
	}

	shopUUID, err := uuid.Parse(shopID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid shop ID format")
		return uuid.Nil, false
	}
	return shopUUID, true
}

// userFromContext reads the acting user ID from the request context.
func userFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userUUID, true
}

// pathUUID parses a :param path segment as a UUID.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
