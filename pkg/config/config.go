package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Signals    SignalsConfig
	Warmup     WarmupConfig
	Thresholds Thresholds
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	Namespace string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SignalsConfig governs exposure, caching and fan-out of the signal endpoints.
type SignalsConfig struct {
	Enabled      bool
	CacheTTL     time.Duration
	Workers      int
	FetchTimeout time.Duration
	Lexicon      string
}

// WarmupConfig tunes the background cache warm-up queue.
type WarmupConfig struct {
	Enabled    bool
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:      v.GetString("REDIS_HOST"),
		Port:      v.GetInt("REDIS_PORT"),
		Password:  v.GetString("REDIS_PASSWORD"),
		DB:        v.GetInt("REDIS_DB"),
		Namespace: v.GetString("REDIS_NAMESPACE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Signals = SignalsConfig{
		Enabled:      v.GetBool("ENABLE_SIGNALS"),
		CacheTTL:     parseDuration(v.GetString("SIGNALS_CACHE_TTL"), 10*time.Minute),
		Workers:      v.GetInt("SIGNALS_WORKERS"),
		FetchTimeout: parseDuration(v.GetString("SIGNALS_FETCH_TIMEOUT"), 5*time.Second),
		Lexicon:      v.GetString("SENTIMENT_LEXICON"),
	}

	cfg.Warmup = WarmupConfig{
		Enabled:    v.GetBool("ENABLE_WARMUP"),
		Workers:    v.GetInt("WARMUP_WORKERS"),
		Retries:    v.GetInt("WARMUP_RETRIES"),
		RetryDelay: parseDuration(v.GetString("WARMUP_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Thresholds = loadThresholds(v)
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadThresholds(v *viper.Viper) Thresholds {
	def := DefaultThresholds()
	return Thresholds{
		RecentWindow: v.GetInt("SIGNAL_RECENT_WINDOW"),

		MinPredictionSamples:       v.GetInt("SIGNAL_MIN_PREDICTION_SAMPLES"),
		PredictionWeights:          parseFloats(v.GetString("SIGNAL_PREDICTION_WEIGHTS"), def.PredictionWeights),
		NormalizePredictionWeights: v.GetBool("SIGNAL_NORMALIZE_PREDICTION_WEIGHTS"),
		PredictionTrendDeadZone:    v.GetFloat64("SIGNAL_PREDICTION_TREND_DEAD_ZONE"),
		ConfidenceStdDevFactor:     v.GetFloat64("SIGNAL_CONFIDENCE_STDDEV_FACTOR"),

		RiskLowMean:            v.GetFloat64("SIGNAL_RISK_LOW_MEAN"),
		RiskDeclineGap:         v.GetFloat64("SIGNAL_RISK_DECLINE_GAP"),
		RiskInconsistencyRange: v.GetFloat64("SIGNAL_RISK_INCONSISTENCY_RANGE"),
		RiskLowMeanWeight:      v.GetInt("SIGNAL_RISK_LOW_MEAN_WEIGHT"),
		RiskDeclineWeight:      v.GetInt("SIGNAL_RISK_DECLINE_WEIGHT"),
		RiskInconsistentWeight: v.GetInt("SIGNAL_RISK_INCONSISTENT_WEIGHT"),
		RiskHighScore:          v.GetInt("SIGNAL_RISK_HIGH_SCORE"),
		RiskMediumScore:        v.GetInt("SIGNAL_RISK_MEDIUM_SCORE"),
		RiskLowScore:           v.GetInt("SIGNAL_RISK_LOW_SCORE"),

		ChurnMediumDays: v.GetInt("SIGNAL_CHURN_MEDIUM_DAYS"),
		ChurnHighDays:   v.GetInt("SIGNAL_CHURN_HIGH_DAYS"),

		MinClusterStudents: v.GetInt("SIGNAL_MIN_CLUSTER_STUDENTS"),
		TierExcellent:      v.GetFloat64("SIGNAL_TIER_EXCELLENT"),
		TierGood:           v.GetFloat64("SIGNAL_TIER_GOOD"),
		TierRegular:        v.GetFloat64("SIGNAL_TIER_REGULAR"),

		AggregateTrendWindow:   parseDuration(v.GetString("SIGNAL_AGGREGATE_TREND_WINDOW"), def.AggregateTrendWindow),
		AggregateTrendDeadZone: v.GetFloat64("SIGNAL_AGGREGATE_TREND_DEAD_ZONE"),
		LedgerMeanWeight:       v.GetFloat64("SIGNAL_LEDGER_MEAN_WEIGHT"),
		LedgerBonusWeight:      v.GetFloat64("SIGNAL_LEDGER_BONUS_WEIGHT"),
		LedgerBonusCap:         v.GetFloat64("SIGNAL_LEDGER_BONUS_CAP"),
		LedgerBonusDivisor:     v.GetFloat64("SIGNAL_LEDGER_BONUS_DIVISOR"),
		ConsistencyHighStdDev:  v.GetFloat64("SIGNAL_CONSISTENCY_HIGH_STDDEV"),
		ConsistencyMedStdDev:   v.GetFloat64("SIGNAL_CONSISTENCY_MEDIUM_STDDEV"),
		EngagementHighLedger:   v.GetInt("SIGNAL_ENGAGEMENT_HIGH_XP"),
		EngagementMedLedger:    v.GetInt("SIGNAL_ENGAGEMENT_MEDIUM_XP"),

		SentimentNegativeBelow: v.GetInt("SIGNAL_SENTIMENT_NEGATIVE_BELOW"),
		SentimentPositiveAbove: v.GetInt("SIGNAL_SENTIMENT_POSITIVE_ABOVE"),
		SentimentOverallBand:   v.GetFloat64("SIGNAL_SENTIMENT_OVERALL_BAND"),

		RecommendReviewBelow:   v.GetFloat64("SIGNAL_RECOMMEND_REVIEW_BELOW"),
		RecommendMinQuizzes:    v.GetInt("SIGNAL_RECOMMEND_MIN_QUIZZES"),
		RecommendMinSubmission: v.GetInt("SIGNAL_RECOMMEND_MIN_SUBMISSIONS"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "edu_platform")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_NAMESPACE", "edu-signal")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SIGNALS", true)
	v.SetDefault("SIGNALS_CACHE_TTL", "10m")
	v.SetDefault("SIGNALS_WORKERS", 8)
	v.SetDefault("SIGNALS_FETCH_TIMEOUT", "5s")
	v.SetDefault("SENTIMENT_LEXICON", "pt")

	v.SetDefault("ENABLE_WARMUP", false)
	v.SetDefault("WARMUP_WORKERS", 2)
	v.SetDefault("WARMUP_RETRIES", 3)
	v.SetDefault("WARMUP_RETRY_DELAY", "2s")

	def := DefaultThresholds()
	v.SetDefault("SIGNAL_RECENT_WINDOW", def.RecentWindow)
	v.SetDefault("SIGNAL_MIN_PREDICTION_SAMPLES", def.MinPredictionSamples)
	v.SetDefault("SIGNAL_PREDICTION_WEIGHTS", "")
	v.SetDefault("SIGNAL_NORMALIZE_PREDICTION_WEIGHTS", def.NormalizePredictionWeights)
	v.SetDefault("SIGNAL_PREDICTION_TREND_DEAD_ZONE", def.PredictionTrendDeadZone)
	v.SetDefault("SIGNAL_CONFIDENCE_STDDEV_FACTOR", def.ConfidenceStdDevFactor)
	v.SetDefault("SIGNAL_RISK_LOW_MEAN", def.RiskLowMean)
	v.SetDefault("SIGNAL_RISK_DECLINE_GAP", def.RiskDeclineGap)
	v.SetDefault("SIGNAL_RISK_INCONSISTENCY_RANGE", def.RiskInconsistencyRange)
	v.SetDefault("SIGNAL_RISK_LOW_MEAN_WEIGHT", def.RiskLowMeanWeight)
	v.SetDefault("SIGNAL_RISK_DECLINE_WEIGHT", def.RiskDeclineWeight)
	v.SetDefault("SIGNAL_RISK_INCONSISTENT_WEIGHT", def.RiskInconsistentWeight)
	v.SetDefault("SIGNAL_RISK_HIGH_SCORE", def.RiskHighScore)
	v.SetDefault("SIGNAL_RISK_MEDIUM_SCORE", def.RiskMediumScore)
	v.SetDefault("SIGNAL_RISK_LOW_SCORE", def.RiskLowScore)
	v.SetDefault("SIGNAL_CHURN_MEDIUM_DAYS", def.ChurnMediumDays)
	v.SetDefault("SIGNAL_CHURN_HIGH_DAYS", def.ChurnHighDays)
	v.SetDefault("SIGNAL_MIN_CLUSTER_STUDENTS", def.MinClusterStudents)
	v.SetDefault("SIGNAL_TIER_EXCELLENT", def.TierExcellent)
	v.SetDefault("SIGNAL_TIER_GOOD", def.TierGood)
	v.SetDefault("SIGNAL_TIER_REGULAR", def.TierRegular)
	v.SetDefault("SIGNAL_AGGREGATE_TREND_WINDOW", def.AggregateTrendWindow.String())
	v.SetDefault("SIGNAL_AGGREGATE_TREND_DEAD_ZONE", def.AggregateTrendDeadZone)
	v.SetDefault("SIGNAL_LEDGER_MEAN_WEIGHT", def.LedgerMeanWeight)
	v.SetDefault("SIGNAL_LEDGER_BONUS_WEIGHT", def.LedgerBonusWeight)
	v.SetDefault("SIGNAL_LEDGER_BONUS_CAP", def.LedgerBonusCap)
	v.SetDefault("SIGNAL_LEDGER_BONUS_DIVISOR", def.LedgerBonusDivisor)
	v.SetDefault("SIGNAL_CONSISTENCY_HIGH_STDDEV", def.ConsistencyHighStdDev)
	v.SetDefault("SIGNAL_CONSISTENCY_MEDIUM_STDDEV", def.ConsistencyMedStdDev)
	v.SetDefault("SIGNAL_ENGAGEMENT_HIGH_XP", def.EngagementHighLedger)
	v.SetDefault("SIGNAL_ENGAGEMENT_MEDIUM_XP", def.EngagementMedLedger)
	v.SetDefault("SIGNAL_SENTIMENT_NEGATIVE_BELOW", def.SentimentNegativeBelow)
	v.SetDefault("SIGNAL_SENTIMENT_POSITIVE_ABOVE", def.SentimentPositiveAbove)
	v.SetDefault("SIGNAL_SENTIMENT_OVERALL_BAND", def.SentimentOverallBand)
	v.SetDefault("SIGNAL_RECOMMEND_REVIEW_BELOW", def.RecommendReviewBelow)
	v.SetDefault("SIGNAL_RECOMMEND_MIN_QUIZZES", def.RecommendMinQuizzes)
	v.SetDefault("SIGNAL_RECOMMEND_MIN_SUBMISSIONS", def.RecommendMinSubmission)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

// parseFloats reads a comma separated list, falling back when any element is malformed.
func parseFloats(raw string, fallback []float64) []float64 {
	parts := splitAndTrim(raw)
	if len(parts) == 0 {
		return append([]float64(nil), fallback...)
	}
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return append([]float64(nil), fallback...)
		}
		out = append(out, f)
	}
	return out
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
