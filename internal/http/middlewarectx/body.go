package middlewarectx

import "net/http"

// BodyLimit ограничивает размер тела запроса n байтами.
// Чтение сверх лимита возвращает *http.MaxBytesError, response.Decode отвечает 413.
func BodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
