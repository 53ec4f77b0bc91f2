// Package memstore реализует транзитное хранилище "ключ -> данные
// пользователя", живущее только в памяти процесса. Хранилище передаётся
// зависимостью, а не глобальной переменной, поэтому его жизненный цикл
// и потокобезопасность явные. Содержимое теряется при перезапуске.
package memstore

import "sync"

// Store — потокобезопасная карта userID -> произвольные данные пользователя.
// Политик вытеснения и истечения нет.
type Store struct {
	mu    sync.RWMutex
	items map[string]any
}

// New создает пустое хранилище.
func New() *Store {
	return &Store{
		items: make(map[string]any),
	}
}

// Set сохраняет данные под ключом, перезаписывая прежнее значение.
func (s *Store) Set(userID string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[userID] = data
}

// Get возвращает данные по ключу и признак их наличия.
func (s *Store) Get(userID string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.items[userID]
	return data, ok
}

// Remove удаляет данные по ключу. Удаление отсутствующего ключа безопасно.
func (s *Store) Remove(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, userID)
}
