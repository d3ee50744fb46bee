package constants

// Redis key prefixes and formats.
// Naming convention: app:{module}:{entity}[:{unique_id}]
const (
	// AppPrefix is the shared prefix for every key the service owns.
	AppPrefix = "smartrecruit"

	// FileModulePrefix covers upload and dedup keys.
	FileModulePrefix = "file"
	// AnalyticsModulePrefix covers cached analytics payloads.
	AnalyticsModulePrefix = "analytics"
	// RankingModulePrefix covers ranking run bookkeeping.
	RankingModulePrefix = "ranking"

	// EntityDedupSet is the MD5 dedup set entity.
	EntityDedupSet = "dedup_set"
	// EntityMD5ToResume maps a file MD5 to the resume that owns it.
	EntityMD5ToResume = "md5_to_resume"
	// EntityOverview is the cached score-distribution payload.
	EntityOverview = "overview"
	// EntityLock is the per-job ranking-run lock.
	EntityLock = "lock"

	// KeyRawFileMD5Set holds MD5s of every uploaded CV file (SET).
	// Format: smartrecruit:file:dedup_set:raw
	KeyRawFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet + ":raw"

	// KeyParsedTextMD5Set holds MD5s of extracted resume text (SET).
	// Format: smartrecruit:file:dedup_set:text
	KeyParsedTextMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet + ":text"

	// KeyMD5ToResumeID maps a raw-file MD5 to its resume ID (STRING).
	// Format: smartrecruit:file:md5_to_resume:{md5}
	KeyMD5ToResumeID = AppPrefix + ":" + FileModulePrefix + ":" + EntityMD5ToResume + ":%s"

	// KeyScoreDistribution caches the analytics overview JSON (STRING).
	// Format: smartrecruit:analytics:overview
	KeyScoreDistribution = AppPrefix + ":" + AnalyticsModulePrefix + ":" + EntityOverview

	// KeyRankingRunLock guards a ranking run per job (STRING).
	// Format: smartrecruit:ranking:lock:{jobID}
	KeyRankingRunLock = AppPrefix + ":" + RankingModulePrefix + ":" + EntityLock + ":%s"
)
