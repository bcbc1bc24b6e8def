// 指示: miu200521358
// Package messages はCLI表示に使うメッセージキーを提供する。
package messages

// メッセージキー一覧。
const (
	MessageSceneRequired  = "シーンファイルは.tomlを指定してください"
	MessageUnknownSolver  = "未対応のソルバー名です"
	MessageLoadFailed     = "シーン読み込み失敗"
	MessageBuildFailed    = "スケルトン構築失敗"
	MessageGoalEvalFailed = "目標式評価失敗"

	LogLoadSuccess   = "[mu_skelly] シーン読み込み成功: %s\n"
	LogBuiltinScene  = "[mu_skelly] 組み込みシーンで実行します\n"
	LogSolveStart    = "[mu_skelly] %s 解決開始: ボーン数=%d 目標数=%d\n"
	LogSolveProgress = "[mu_skelly] %s step=%d status=%s error=%.6f\n"
	LogSolveSummary  = "[mu_skelly] %s 完了: status=%s error=%.6f steps=%d\n"
)
