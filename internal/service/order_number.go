package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/homeplus-shop/internal/constants"

	"github.com/google/uuid"
)

const (
	orderNoMaxAttempts   = 10
	orderNoSuffixLen     = 4
	orderNoTimeLayout    = "20060102-150405"
	trackingNoPrefix     = "TRK"
	returnNoPrefix       = "RET"
	fallbackSuffixHexLen = 12
)

var orderNoPattern = regexp.MustCompile(`^(HP|WA|AD)-\d{8}-\d{6}-[A-F0-9]{4,}$`)

var sourcePrefixes = map[string]string{
	constants.OrderSourceWeb:      constants.OrderPrefixWeb,
	constants.OrderSourceWhatsApp: constants.OrderPrefixWhatsApp,
	constants.OrderSourceAdmin:    constants.OrderPrefixAdmin,
}

var prefixSources = map[string]string{
	constants.OrderPrefixWeb:      constants.OrderSourceWeb,
	constants.OrderPrefixWhatsApp: constants.OrderSourceWhatsApp,
	constants.OrderPrefixAdmin:    constants.OrderSourceAdmin,
}

// NumberExistsFunc 判断编号是否已被占用
type NumberExistsFunc func(no string) (bool, error)

// NumberGenerator 订单编号、物流单号与退货单号生成器
type NumberGenerator struct {
	orderNoExists    NumberExistsFunc
	trackingNoExists NumberExistsFunc
	returnNoExists   NumberExistsFunc
}

// NewNumberGenerator 创建编号生成器
func NewNumberGenerator(orderNoExists, trackingNoExists, returnNoExists NumberExistsFunc) *NumberGenerator {
	return &NumberGenerator{
		orderNoExists:    orderNoExists,
		trackingNoExists: trackingNoExists,
		returnNoExists:   returnNoExists,
	}
}

// GenerateOrderNo 按来源渠道生成订单编号，冲突时重试，重试耗尽后退回长随机后缀
func (g *NumberGenerator) GenerateOrderNo(source string) (string, error) {
	prefix, ok := sourcePrefixes[source]
	if !ok {
		return "", ErrOrderSourceInvalid
	}
	return g.generateUnique(prefix, g.orderNoExists)
}

// GenerateTrackingNo 生成物流单号
func (g *NumberGenerator) GenerateTrackingNo() (string, error) {
	return g.generateUnique(trackingNoPrefix, g.trackingNoExists)
}

// GenerateReturnNo 生成退货单号
func (g *NumberGenerator) GenerateReturnNo() (string, error) {
	return g.generateUnique(returnNoPrefix, g.returnNoExists)
}

func (g *NumberGenerator) generateUnique(prefix string, exists NumberExistsFunc) (string, error) {
	for i := 0; i < orderNoMaxAttempts; i++ {
		candidate := buildNumber(prefix, randHexUpper(orderNoSuffixLen))
		if exists == nil {
			return candidate, nil
		}
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	// 重试耗尽，改用 uuid 派生的长后缀，构造上不与短后缀冲突
	fallback := buildNumber(prefix, uuidHexUpper(fallbackSuffixHexLen))
	if exists != nil {
		taken, err := exists(fallback)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrOrderNumberExhausted
		}
	}
	return fallback, nil
}

// ValidateFormat 校验订单编号格式
func (g *NumberGenerator) ValidateFormat(no string) bool {
	return orderNoPattern.MatchString(strings.TrimSpace(no))
}

// ExtractSource 从订单编号解析来源渠道
func (g *NumberGenerator) ExtractSource(no string) (string, error) {
	trimmed := strings.TrimSpace(no)
	if !orderNoPattern.MatchString(trimmed) {
		return "", ErrOrderSourceInvalid
	}
	prefix := trimmed[:strings.Index(trimmed, "-")]
	source, ok := prefixSources[prefix]
	if !ok {
		return "", ErrOrderSourceInvalid
	}
	return source, nil
}

func buildNumber(prefix, suffix string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format(orderNoTimeLayout), suffix)
}

func randHexUpper(length int) string {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return uuidHexUpper(length)
	}
	return strings.ToUpper(hex.EncodeToString(buf))[:length]
}

func uuidHexUpper(length int) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if length > len(raw) {
		length = len(raw)
	}
	return raw[:length]
}
