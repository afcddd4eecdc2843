package testservice

import "errors"

var (
	// ErrTestServiceNotFound возвращается, когда услуга не найдена
	ErrTestServiceNotFound = errors.New("testservice.repository: test service not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("testservice.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("testservice.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("testservice.repository: failed to scan row")
)
