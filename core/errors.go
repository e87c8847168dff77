package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message），可携带底层原因（Err）
//   - 支持错误检查函数（IsXXX），与 errors.Is / errors.As 兼容
//
// 使用场景：
//   - 输入错误：种子位置越界、向量维度不符 → INVALID_INPUT
//   - 数据源错误：目录与向量行数不一致、快照未加载 → UNAVAILABLE
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - 外部服务错误：重排网关、嵌入服务不可达 → UNAVAILABLE
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_INPUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "catalog", "vector", "recall"）
	Err     error  // 底层原因，可为 nil
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 暴露底层原因，支持 errors.Is / errors.As 链式检查。
func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsDomainError 检查错误链上是否存在 DomainError。
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 从错误链上取出 DomainError，不存在则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建携带底层原因的领域错误。
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 数据源/服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleCatalog  = "catalog"  // 商品目录模块
	ModuleVector   = "vector"   // 向量快照模块
	ModuleRecall   = "recall"   // 召回模块
	ModuleRerank   = "rerank"   // 重排模块
	ModuleService  = "service"  // 外部服务模块
	ModuleStore    = "store"    // 存储模块
	ModulePipeline = "pipeline" // 管线模块
)

// 通用错误检查函数

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE。
// 召回链路用它区分“可降级到下一数据源”与“必须拒绝请求”。
func IsUnavailable(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnavailable
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT。
// 输入错误必须原样上抛给调用方，不允许静默修正。
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}
