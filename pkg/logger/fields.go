package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldEntityType 实体类型字段
	FieldEntityType = "entityType"

	// FieldEntityID 实体根ID字段
	FieldEntityID = "entityId"

	// FieldVersionID 版本ID字段
	FieldVersionID = "versionId"

	// FieldBranch 分支名称字段
	FieldBranch = "branch"

	// FieldSourceBranch 合并来源分支字段
	FieldSourceBranch = "sourceBranch"

	// FieldTargetBranch 合并目标分支字段
	FieldTargetBranch = "targetBranch"

	// FieldActor 操作者字段
	FieldActor = "actor"

	// FieldCommand 命令类型字段
	FieldCommand = "command"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldError 错误信息字段
	FieldError = "error"
)
