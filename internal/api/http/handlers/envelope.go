package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/pkg/util"
)

// envelope renders the response contract shared by every endpoint:
// responseCode "00" on success and "22" on failure, with the payload
// under responseData and, for login endpoints, a top-level token.
func envelope(message string, data interface{}) fiber.Map {
	m := fiber.Map{
		"responseCode":    util.CodeSuccess,
		"responseMessage": message,
	}
	if data != nil {
		m["responseData"] = data
	}
	return m
}

func tokenEnvelope(message string, data interface{}, token string) fiber.Map {
	m := envelope(message, data)
	m["token"] = token
	return m
}
