package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// LoginRequest представляет запрос на вход оператора
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

// handleLogin обменивает пароль оператора на токен
func (rs *RestServer) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}
	if req.Username == "" {
		req.Username = "operator"
	}

	token, err := rs.tokens.Login(rs.adminHash, req.Username, req.Password)
	if err != nil {
		rs.logger.Warn("⚠️ Неудачный вход оператора %s с %s", req.Username, c.ClientIP())
		respondError(c, http.StatusUnauthorized, "Неверное имя пользователя или пароль")
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Вход выполнен",
		Data:    map[string]interface{}{"token": token},
	})
}

// jwtMiddleware проверяет JWT токен в заголовке Authorization.
// Без настроенного пароля оператора пропускает все запросы.
func (rs *RestServer) jwtMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rs.adminHash == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, http.StatusUnauthorized, "Отсутствует токен авторизации")
			c.Abort()
			return
		}

		// Проверяем формат "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(c, http.StatusUnauthorized, "Неверный формат токена")
			c.Abort()
			return
		}

		claims, err := rs.tokens.Validate(parts[1])
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Недействительный токен")
			c.Abort()
			return
		}
		if !claims.IsAdmin {
			respondError(c, http.StatusForbidden, "Недостаточно прав доступа")
			c.Abort()
			return
		}

		c.Set("operator", claims.Operator)
		c.Next()
	}
}
