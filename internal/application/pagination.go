package application

const (
	defaultLimit = 20
	maxLimit     = 100
)

// normalizePage はページング指定を許容範囲に丸める
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
