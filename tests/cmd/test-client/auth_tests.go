package main

import (
	"fmt"
	"time"
)

// testRegister регистрация нового пользователя
func (c *TestClient) testRegister() {
	fmt.Println("📝 Тестирование регистрации пользователя...")

	c.email = fmt.Sprintf("test%d@example.com", time.Now().UnixNano())
	c.password = "TestPassword123!"
	req := map[string]interface{}{
		"email":        c.email,
		"password":     c.password,
		"display_name": "Test User",
	}

	var resp map[string]interface{}
	if err := c.makeRequest("POST", "/api/v1/auth/register", req, &resp); err != nil {
		c.printResult("Регистрация", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}

	c.userID, _ = resp["user_id"].(string)
	c.printResult("Регистрация", c.userID != "", fmt.Sprintf("ID пользователя: %s", c.userID))
}

// testLogin вход зарегистрированного пользователя
func (c *TestClient) testLogin() {
	fmt.Println("🔐 Тестирование входа пользователя...")

	if c.email == "" {
		c.printResult("Вход", false, "Пользователь не зарегистрирован")
		return
	}

	req := map[string]interface{}{
		"email":    c.email,
		"password": c.password,
	}

	var resp map[string]interface{}
	if err := c.makeRequest("POST", "/api/v1/auth/login", req, &resp); err != nil {
		c.printResult("Вход", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}

	c.token, _ = resp["access_token"].(string)
	c.refreshToken, _ = resp["refresh_token"].(string)
	user, _ := resp["user"].(map[string]interface{})
	c.printResult("Вход", c.token != "", fmt.Sprintf("Токен получен, роль: %v", user["role"]))
}

// testGetProfile профиль текущего пользователя
func (c *TestClient) testGetProfile() {
	fmt.Println("👤 Тестирование получения профиля...")
	if !c.requireToken("Профиль") {
		return
	}

	var resp map[string]interface{}
	if err := c.makeRequest("GET", "/api/v1/auth/profile", nil, &resp); err != nil {
		c.printResult("Профиль", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}

	ok := resp["role"] == "user" && resp["is_admin"] == false
	c.printResult("Профиль", ok, fmt.Sprintf("email: %v, роль: %v", resp["email"], resp["role"]))
}

// testUpdateProfile обновление профиля
func (c *TestClient) testUpdateProfile() {
	fmt.Println("✏️  Тестирование обновления профиля...")
	if !c.requireToken("Обновление профиля") {
		return
	}

	req := map[string]interface{}{
		"display_name":  "Updated User",
		"bio":           "Люблю старое кино",
		"date_of_birth": "1990-05-17",
	}

	var resp map[string]interface{}
	if err := c.makeRequest("PUT", "/api/v1/auth/profile", req, &resp); err != nil {
		c.printResult("Обновление профиля", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}

	c.printResult("Обновление профиля", resp["display_name"] == "Updated User", "")
}

// testRefreshToken обновление пары токенов
func (c *TestClient) testRefreshToken() {
	fmt.Println("🔄 Тестирование обновления токена...")
	if c.refreshToken == "" {
		c.printResult("Обновление токена", false, "Refresh токен отсутствует")
		return
	}

	req := map[string]interface{}{"refresh_token": c.refreshToken}

	var resp map[string]interface{}
	if err := c.makeRequest("POST", "/api/v1/auth/refresh", req, &resp); err != nil {
		c.printResult("Обновление токена", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}

	if token, ok := resp["access_token"].(string); ok && token != "" {
		c.token = token
	}
	c.printResult("Обновление токена", resp["admin"] == false, fmt.Sprintf("admin: %v", resp["admin"]))
}
