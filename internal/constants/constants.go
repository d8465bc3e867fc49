package constants

import "time"

var CacheTTL = struct {
	PlatformResult time.Duration
}{
	PlatformResult: 30 * time.Minute, // 30분 - 플랫폼별 수집 결과
}

var CacheKeys = struct {
	ResultPrefix string
}{
	ResultPrefix: "osint:result",
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
	PollInterval time.Duration
}{
	ReadyTimeout: 5 * time.Second,
	PollInterval: 100 * time.Millisecond,
}

var DatabaseConfig = struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}{
	MaxOpenConns:    10,
	MaxIdleConns:    2,
	ConnMaxLifetime: 5 * time.Minute, // 리포트 저장은 드물게 발생
	PingTimeout:     5 * time.Second,
}

var WorkerConfig = struct {
	PoolSize    int
	MaxPoolSize int
}{
	PoolSize:    3,  // 외부 rate limit 보호용 기본값
	MaxPoolSize: 32,
}

var TimeoutConfig = struct {
	Platform time.Duration
	Report   time.Duration
}{
	Platform: 30 * time.Second, // 플랫폼 1건 처리 제한
	Report:   5 * time.Minute,  // 리포트 전체 마감
}

var AnalysisConfig = struct {
	TopN     int
	MaxDepth int
}{
	TopN:     5,
	MaxDepth: 5,
}

var ScoreConfig = struct {
	PerPlatform         int
	MentionBonus        int
	MaxFootprint        int
	HighRiskPlatforms   int
	MediumRiskPlatforms int
}{
	PerPlatform:         15,
	MentionBonus:        10,
	MaxFootprint:        100,
	HighRiskPlatforms:   4,
	MediumRiskPlatforms: 2,
}

// 핸들 일치 플랫폼 수 -> username 신뢰도
var UsernameConfidence = struct {
	Three int
	Two   int
	One   int
}{
	Three: 90,
	Two:   70,
	One:   50,
}

var StringLimits = struct {
	ErrorDetail int
	LogSnippet  int
}{
	ErrorDetail: 200,
	LogSnippet:  120,
}
