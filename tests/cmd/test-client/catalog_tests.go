package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// testListCatalog список каталога; первая запись используется в тестах просмотра
func (c *TestClient) testListCatalog() {
	fmt.Println("📚 Тестирование списка каталога...")

	var resp struct {
		Titles []map[string]interface{} `json:"titles"`
		Total  int                      `json:"total"`
	}
	if err := c.makeRequest("GET", "/api/v1/catalog", nil, &resp); err != nil {
		c.printResult("Каталог", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}

	if len(resp.Titles) > 0 {
		c.titleID, _ = resp.Titles[0]["id"].(string)
	}
	c.printResult("Каталог", resp.Total == len(resp.Titles), fmt.Sprintf("Записей: %d", resp.Total))
}

// testLatest последние добавленные
func (c *TestClient) testLatest() {
	fmt.Println("🆕 Тестирование последних добавленных...")

	var resp struct {
		Total int `json:"total"`
	}
	if err := c.makeRequest("GET", "/api/v1/catalog/latest?count=3", nil, &resp); err != nil {
		c.printResult("Последние", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}
	c.printResult("Последние", resp.Total <= 3, fmt.Sprintf("Записей: %d", resp.Total))
}

// testSearch поиск по названию
func (c *TestClient) testSearch() {
	fmt.Println("🔍 Тестирование поиска...")

	var resp struct {
		Total int `json:"total"`
	}
	if err := c.makeRequest("GET", "/api/v1/catalog/search?q="+url.QueryEscape("брат"), nil, &resp); err != nil {
		c.printResult("Поиск", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}
	c.printResult("Поиск", true, fmt.Sprintf("Найдено: %d", resp.Total))
}

// testSaveProgress контрольная точка прогресса и проверка троттлинга
func (c *TestClient) testSaveProgress() {
	fmt.Println("⏱️  Тестирование сохранения прогресса...")
	if !c.requireToken("Прогресс") {
		return
	}
	if c.titleID == "" {
		c.printResult("Прогресс", true, "Каталог пуст, тест пропущен")
		return
	}

	endpoint := "/api/v1/watch/" + url.PathEscape(c.titleID) + "/progress"

	var first map[string]interface{}
	if err := c.makeRequest("PUT", endpoint, map[string]interface{}{"offset": 30, "last_saved": 0}, &first); err != nil {
		c.printResult("Прогресс", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}

	// Сдвиг на 2 секунды не пишется
	var second map[string]interface{}
	if err := c.makeRequest("PUT", endpoint, map[string]interface{}{"offset": 32, "last_saved": 30}, &second); err != nil {
		c.printResult("Прогресс", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}

	ok := first["persisted"] == true && second["persisted"] == false
	c.printResult("Прогресс", ok, fmt.Sprintf("первая запись: %v, вторая: %v", first["persisted"], second["persisted"]))
}

// testBookmark установка и снятие закладки
func (c *TestClient) testBookmark() {
	fmt.Println("🔖 Тестирование закладок...")
	if !c.requireToken("Закладки") {
		return
	}
	if c.titleID == "" {
		c.printResult("Закладки", true, "Каталог пуст, тест пропущен")
		return
	}

	endpoint := "/api/v1/watch/" + url.PathEscape(c.titleID) + "/bookmark"

	var state map[string]interface{}
	if err := c.makeRequest("PUT", endpoint, map[string]interface{}{"bookmarked": true}, &state); err != nil {
		c.printResult("Закладки", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}
	if state["is_bookmarked"] != true {
		c.printResult("Закладки", false, "Закладка не установлена")
		return
	}

	if err := c.makeRequest("PUT", endpoint, map[string]interface{}{"bookmarked": false}, &state); err != nil {
		c.printResult("Закладки", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}
	c.printResult("Закладки", state["is_bookmarked"] == false, fmt.Sprintf("прогресс сохранен: %v", state["progress"]))
}

// testHistory история просмотра
func (c *TestClient) testHistory() {
	fmt.Println("🕘 Тестирование истории...")
	if !c.requireToken("История") {
		return
	}

	var resp struct {
		Items []map[string]interface{} `json:"items"`
	}
	if err := c.makeRequest("GET", "/api/v1/me/history?limit=10", nil, &resp); err != nil {
		c.printResult("История", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}
	c.printResult("История", true, fmt.Sprintf("Записей: %d", len(resp.Items)))
}

// callableStatus статус ошибки из конверта вызываемой функции
func (c *TestClient) callableStatus(name string, data map[string]interface{}) (int, string, error) {
	err := c.makeRequest("POST", "/api/v1/callable/"+name, map[string]interface{}{"data": data}, nil)
	if err == nil {
		return http.StatusOK, "", nil
	}
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		return 0, "", err
	}
	return apiErr.StatusCode, apiErr.Body, nil
}

// testCallableWithoutToken вызов без токена отклоняется
func (c *TestClient) testCallableWithoutToken() {
	fmt.Println("🚪 Тестирование вызова без токена...")

	token := c.token
	c.token = ""
	defer func() { c.token = token }()

	status, body, err := c.callableStatus("updateUserRole", map[string]interface{}{"targetUid": "someone", "newRole": "admin"})
	if err != nil {
		c.printResult("Вызов без токена", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}
	c.printResult("Вызов без токена", status == http.StatusUnauthorized, body)
}

// testCallableNotAdmin обычный пользователь не может менять роли
func (c *TestClient) testCallableNotAdmin() {
	fmt.Println("⛔ Тестирование вызова без прав администратора...")
	if !c.requireToken("Вызов без прав") {
		return
	}

	status, body, err := c.callableStatus("addAdminRole", map[string]interface{}{"targetEmail": c.email})
	if err != nil {
		c.printResult("Вызов без прав", false, fmt.Sprintf("Ошибка: %v", err))
		return
	}
	c.printResult("Вызов без прав", status == http.StatusForbidden, body)
}
