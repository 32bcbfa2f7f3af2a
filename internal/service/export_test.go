package service

// SessionLockRetained 测试用：会话锁注册表里是否还保留该会话的条目
func (s *GameService) SessionLockRetained(sessionID uint) bool {
	_, ok := s.sessionLocks.Load(sessionID)
	return ok
}
