package llm

import "fmt"

// promptTemplate instructs the model to return extraction JSON only.
// Two shapes are accepted: a flat place list for single-route notes and
// a routes array for day-by-day itineraries.
const promptTemplate = `你是一个旅行笔记解析助手。请从下面的笔记中提取地点信息，只返回JSON，不要输出任何其他文字。

规则：
1. 只提取笔记中明确出现名字的地点（店名、景点名、车站名、地址）。不要推测、补全或虚构笔记中没有提到的地点。
2. 每个地点给出 name、description、address、category。category 取值：交通/景点/购物/美食/公园/其他。
3. 提取笔记标题 title、简介 content 和话题标签 tags（不带#号）。
4. 如果笔记按天或按线路描述多条独立路线，使用多路线格式；否则使用单路线格式。

单路线格式：
{
  "title": "...",
  "content": "...",
  "tags": ["..."],
  "route_type": "single",
  "places": [
    {"name": "...", "description": "...", "address": "...", "category": "..."}
  ]
}

多路线格式：
{
  "title": "...",
  "content": "...",
  "tags": ["..."],
  "route_type": "multi",
  "routes": [
    {
      "route_id": "route_1",
      "route_name": "...",
      "route_description": "...",
      "places": [
        {"name": "...", "description": "...", "address": "...", "category": "..."}
      ]
    }
  ]
}

笔记内容：
%s`

// buildPrompt renders the extraction prompt for the note text.
func buildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
