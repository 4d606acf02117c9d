package patterns

// bundledSurnames is a small curated list of common Japanese surnames
// used by ContainsKnownName. It is intentionally short: the structural
// surname-given heuristic and the optional morphological lookup carry
// most of the recall.
var bundledSurnames = []string{
	"佐藤", "鈴木", "高橋", "田中", "伊藤", "渡辺", "山本", "中村", "小林", "加藤",
	"吉田", "山田", "佐々木", "山口", "松本", "井上", "木村", "林", "斎藤", "清水",
	"山崎", "森", "池田", "橋本", "阿部", "石川", "山下", "中島", "石井", "小川",
	"前田", "岡田", "長谷川", "藤田", "後藤", "近藤", "村上", "遠藤", "青木", "坂本",
}
