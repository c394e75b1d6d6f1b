package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration
		"Initializing output directories":      "出力ディレクトリを初期化中",
		"Output directories ready under %s":    "出力ディレクトリの準備完了: %s",
		"Initialization aborted: %s":           "初期化を中止しました: %s",
		"Not initialized, ignoring %s":         "未初期化のため %s を無視します",
		"Interrupted, shutting down...":        "中断されました。シャットダウン中...",
		"Recording for %s...":                  "%s の間録画中...",
		"Output saved to %s":                   "出力を %s に保存しました",
		"No frames captured yet":               "まだフレームがキャプチャされていません",
		"Cannot list frames: %s":               "フレーム一覧を取得できません: %s",
		"Summary written to %s":                "サマリーを %s に書き込みました",
		"Could not write summary: %s":          "サマリーを書き込めませんでした: %s",

		// Directory resolver
		"Requesting storage access for %s":             "%s へのストレージアクセスを要求中",
		"Storage access denied for %s: %s":             "%s へのストレージアクセスが拒否されました: %s",
		"Preferred directory %s unavailable: %s":       "優先ディレクトリ %s は利用できません: %s",
		"Using fallback directory %s":                  "代替ディレクトリ %s を使用します",
		"Created directory %s":                         "ディレクトリ %s を作成しました",
		"Removed %d stale frames":                      "古いフレームを %d 件削除しました",

		// Capture driver
		"Capture session started at frame %d":   "フレーム %d からキャプチャセッションを開始しました",
		"Capture session already active":        "キャプチャセッションは既に有効です",
		"Capture session stopped after %d frames": "%d フレームでキャプチャセッションを停止しました",
		"Surface is repainting, waiting %s":     "サーフェスが再描画中のため %s 待機します",
		"Saved %s":                              "%s を保存しました",
		"Frame dropped: %s":                     "フレームを破棄しました: %s",
		"Frame limit %d reached":                "フレーム上限 %d に達しました",

		// Encode invoker
		"Probing encoder capabilities":          "エンコーダーの機能を調査中",
		"Encoder probe failed: %s":              "エンコーダーの調査に失敗しました: %s",
		"Selected encoder %s":                   "エンコーダー %s を選択しました",
		"Encoding %d frames at %d fps":          "%d フレームを %d fps でエンコード中",
		"Encoder exited with status %d":         "エンコーダーがステータス %d で終了しました",
		"Failed to start encoder: %s":           "エンコーダーの起動に失敗しました: %s",
		"Video generated: %s (%d bytes)":        "動画を生成しました: %s (%d バイト)",
		"Detected %s video, %d samples, %d ms":  "%s 動画を検出しました: %d サンプル, %d ms",
		"Could not inspect output: %s":          "出力を検査できませんでした: %s",
	})
}
