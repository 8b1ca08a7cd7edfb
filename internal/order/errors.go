package order

import "errors"

var (
	ErrEmptyCart       = errors.New("sepet boş")
	ErrProductNotFound = errors.New("ürün bulunamadı")
	ErrOrderNotFound   = errors.New("sipariş bulunamadı")
	ErrOrderFinalized  = errors.New("sipariş sonuçlandırılmış, farklı bir duruma çekilemez")
	ErrInvalidState    = errors.New("sipariş bu durumda iptal edilemez")
	ErrUnauthorized    = errors.New("bu sipariş üzerinde yetkiniz yok")
	ErrValidation      = errors.New("geçersiz istek")
)
