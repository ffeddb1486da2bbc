package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/user/aniview/internal/model"
	"golang.org/x/time/rate"
)

// API 密钥格式：ak_ 前缀 + 32 位随机字母数字
// 查找只用前 10 个字符，完整值只在创建时返回一次
const (
	KeyMarker    = "ak_"
	keyRandomLen = 32
	KeyPrefixLen = 10
)

const keyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateKey 生成新的 API 密钥
func GenerateKey() (string, error) {
	buf := make([]byte, keyRandomLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成随机密钥失败: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(KeyMarker)
	for _, b := range buf {
		sb.WriteByte(keyCharset[int(b)%len(keyCharset)])
	}
	return sb.String(), nil
}

// HashKey 计算密钥的 SHA-256 哈希（十六进制）
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// KeyPrefix 取密钥前缀（用于查找）
func KeyPrefix(key string) string {
	if len(key) < KeyPrefixLen {
		return key
	}
	return key[:KeyPrefixLen]
}

// credentialStore 密钥校验依赖的最小存储接口
type credentialStore interface {
	FindActiveByPrefix(prefix string) (*model.APIKey, error)
	RecordUsage(id string) error
}

// Validation 密钥校验结果
type Validation struct {
	Valid  bool
	UserID int
	KeyID  string
	Reason string // 校验失败时的对外错误信息
}

// KeyValidator 网关密钥校验器，附带按密钥的令牌桶限流
type KeyValidator struct {
	store     credentialStore
	limiters  *lru.Cache[string, *rate.Limiter]
	perMinute int
}

// NewKeyValidator 创建校验器
// perMinute <= 0 时不限流；限流器按密钥 ID 放在 LRU 里，闲置的自然淘汰
func NewKeyValidator(s credentialStore, perMinute int) *KeyValidator {
	limiters, _ := lru.New[string, *rate.Limiter](4096)
	return &KeyValidator{
		store:     s,
		limiters:  limiters,
		perMinute: perMinute,
	}
}

// Validate 校验调用方出示的密钥
// 命中后异步记录使用情况（计数 +1、刷新最后使用时间），不阻塞响应；
// 未找到和已停用统一返回同一个错误信息，不泄露具体原因
func (v *KeyValidator) Validate(presented string) *Validation {
	if presented == "" || !strings.HasPrefix(presented, KeyMarker) {
		return &Validation{Valid: false, Reason: "Invalid API key format"}
	}

	key, err := v.store.FindActiveByPrefix(KeyPrefix(presented))
	if err != nil {
		log.Printf("[Gateway] 密钥查询失败: %v", err)
		return &Validation{Valid: false, Reason: "Invalid or inactive API key"}
	}
	if key == nil {
		return &Validation{Valid: false, Reason: "Invalid or inactive API key"}
	}

	// 使用统计不在请求路径上等待
	go func(id string) {
		if err := v.store.RecordUsage(id); err != nil {
			log.Printf("[Gateway] 记录密钥使用失败 (ID: %s): %v", id, err)
		}
	}(key.ID)

	return &Validation{Valid: true, UserID: key.UserID, KeyID: key.ID}
}

// Allow 按密钥 ID 做令牌桶限流，桶容量为每分钟配额
func (v *KeyValidator) Allow(keyID string) bool {
	if v.perMinute <= 0 {
		return true
	}

	limiter, ok := v.limiters.Get(keyID)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(v.perMinute)/60.0), v.perMinute)
		v.limiters.Add(keyID, limiter)
	}
	return limiter.Allow()
}
