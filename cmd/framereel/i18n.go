// Package main provides localization for the framereel CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration": "設定",
		"Output":        "出力先",
		"Encoder":       "エンコーダー",
		"Logging":       "ログ",
		"Surface":       "サーフェス",
		"Capture":       "キャプチャ",

		// Commands
		"Capture an animated widget to PNG frames and encode them into MP4": "アニメーションするウィジェットをPNGフレームに保存しMP4にエンコード",
		"Capture frames for a duration, then encode them":                   "一定時間フレームをキャプチャしてからエンコード",
		"Encode the frames already on disk into the output video":           "保存済みのフレームを出力動画にエンコード",
		"Show which encoder would be selected":                              "選択されるエンコーダーを表示",
		"Resolve and create the output directories":                         "出力ディレクトリを解決して作成",

		// Common flags
		"YAML configuration file":                                   "YAML設定ファイル",
		"Preferred base directory":                                  "優先する保存先ディレクトリ",
		"Base directory used when the preferred one is unavailable": "優先ディレクトリが使えない場合の保存先",
		"Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)": "ffmpegのパス（未指定時はFFMPEG_PATH環境変数、PATHの順）",
		"Log level (debug, info, warn, error)":                      "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                                   "すべてのログ出力を抑制",

		// Record flags
		"Surface to capture (widget, html, screen)":                "キャプチャするサーフェス（widget, html, screen）",
		"Surface width in pixels":                                  "サーフェスの幅（ピクセル）",
		"Surface height in pixels":                                 "サーフェスの高さ（ピクセル）",
		"Caption shown in the widget":                              "ウィジェットに表示するキャプション",
		"HTML page to render instead of the built-in widget":       "組み込みウィジェットの代わりに描画するHTMLページ",
		"Show the browser window":                                  "ブラウザウィンドウを表示",
		"Recording duration (0: until interrupted or frame limit)": "録画時間（0: 中断またはフレーム上限まで）",
		"Time between capture ticks":                               "キャプチャの間隔",
		"Wait applied when the surface is repainting":              "サーフェス再描画中の待機時間",
		"Stop after this many frames (0: unlimited)":               "このフレーム数で停止（0: 無制限）",
		"Scale frames to this width":                               "フレームをこの幅に拡縮",
		"Scale frames to this height":                              "フレームをこの高さに拡縮",
		"Remove existing frames before recording":                  "録画前に既存のフレームを削除",
		"Capture frames only":                                      "フレームのキャプチャのみ実行",

		"Screen region x,y,w,h for the screen surface (default: whole screen)":           "screen サーフェスの画面領域 x,y,w,h（デフォルト: 画面全体）",
		"Path to Chrome executable (falls back to CHROME_PATH env, then system default)": "Chrome実行ファイルのパス（未指定時はCHROME_PATH環境変数、システムデフォルトの順）",

		// Encode flags
		"Preferred encoder (default: libx264)":                            "優先エンコーダー（デフォルト: libx264）",
		"Encoder used when the preferred one is missing (default: mpeg4)": "優先エンコーダーがない場合のエンコーダー（デフォルト: mpeg4）",
		"Input frame rate (default: 30)":                                  "入力フレームレート（デフォルト: 30）",
		"Write a Markdown summary to this path":                           "Markdownサマリーの出力先",

		// Command output
		"Using the built-in font: %s":              "組み込みフォントを使用します: %s",
		"Output directories could not be prepared": "出力ディレクトリを準備できませんでした",
		"Video generation failed: %v":              "動画の生成に失敗しました: %v",
		"Selected encoder: %s":                     "選択されたエンコーダー: %s",
		"%s is not available in this ffmpeg build": "このffmpegビルドでは %s を利用できません",
		"Base:   %s":                               "ベース:     %s",
		"Frames: %s (%d files)":                    "フレーム:   %s (%d ファイル)",
		"Output: %s":                               "出力:       %s",

		// Summary content
		"Recording Summary": "記録サマリー",
		"Item":              "項目",
		"Value":             "値",
		"Video":             "動画",
		"Frames Captured":   "キャプチャしたフレーム",
		"Frames Dropped":    "破棄したフレーム",
		"Frames Encoded":    "エンコードしたフレーム",
		"Frames Directory":  "フレームディレクトリ",
		"Capture Interval":  "キャプチャ間隔",
		"Status":            "状態",
		"Generated":         "生成済み",
		"Failed":            "失敗",
		"exit status":       "終了ステータス",
		"Frame Rate":        "フレームレート",
		"File Size":         "ファイルサイズ",
		"Codec":             "コーデック",
		"Samples":           "サンプル数",
		"Duration":          "再生時間",
		"Encode Time":       "エンコード時間",
		"Generated at":      "生成日時",
		"Run":               "実行",
	})
}
