package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

type MessageLinkClaims struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	jwt.RegisteredClaims
}

func CreateMessageLinkToken(conversationID, messageID string) (string, error) {
	ttl := viper.GetDuration("links.ttl")
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	claims := MessageLinkClaims{
		ConversationID: conversationID,
		MessageID:      messageID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "colloquy",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tks, err := token.SignedString([]byte(viper.GetString("security.link_token_secret")))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return tks, nil
}

func ParseMessageLinkToken(tk string) (MessageLinkClaims, error) {
	var claims MessageLinkClaims
	token, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return []byte(viper.GetString("security.link_token_secret")), nil
	})
	if err != nil {
		return claims, err
	}
	if !token.Valid {
		return claims, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// BuildMessageLink renders a shareable link to a message.
func BuildMessageLink(conversationID, messageID string) (string, error) {
	tk, err := CreateMessageLinkToken(conversationID, messageID)
	if err != nil {
		return "", err
	}
	base := strings.TrimRight(viper.GetString("links.base_url"), "/")
	return fmt.Sprintf(
		"%s/c/%s/m/%s?token=%s",
		base,
		url.PathEscape(conversationID),
		url.PathEscape(messageID),
		url.QueryEscape(tk),
	), nil
}

// ParseMessageLink validates a link built by BuildMessageLink and checks
// that the signed ids match the path.
func ParseMessageLink(link string) (MessageLinkClaims, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return MessageLinkClaims{}, fmt.Errorf("invalid message link: %v", err)
	}
	claims, err := ParseMessageLinkToken(parsed.Query().Get("token"))
	if err != nil {
		return claims, fmt.Errorf("invalid message link token: %v", err)
	}
	suffix := fmt.Sprintf("/c/%s/m/%s", url.PathEscape(claims.ConversationID), url.PathEscape(claims.MessageID))
	if !strings.HasSuffix(parsed.EscapedPath(), suffix) {
		return claims, fmt.Errorf("message link path does not match its token")
	}
	return claims, nil
}
