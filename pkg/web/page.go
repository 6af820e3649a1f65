package web

// pageHTML renders the panel with the element ids and classes stylesheets
// and scripts written for the panel rely on: #title, #selectgraph, #selectx,
// #selecty, #svg_body, and the listing/selected/unselected/previous/invalid
// item classes.
const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; display: flex; gap: 2em; }
#options { width: 16em; }
#title { font-size: 1.2em; margin: 0 0 .5em; }
.edit_button { cursor: pointer; }
.tab .title { color: #6272a4; margin: .5em 0 .2em; }
.tab .title.active { color: #6b47d9; font-weight: bold; }
ul { list-style: none; margin: 0; padding: 0; }
.listing button { all: unset; cursor: pointer; padding: .1em .4em; }
.listing.selected button { font-weight: bold; }
.listing.previous button { text-decoration: underline; }
.listing.invalid button { color: #999; text-decoration: line-through; }
.error { color: #cc0000; }
</style>
</head>
<body>
<div id="options">
{{- if .State.Edit}}
<form method="post" action="/edit"><button id="title" class="title edit_button" type="submit">{{.State.Heading}}</button></form>
{{- else}}
<h2 id="title" class="title">{{.State.Heading}}</h2>
{{- end}}
{{- if .State.PanelVisible}}
{{- range $tab := .State.Tabs}}{{if $tab.Visible}}
<div id="{{$tab.ID}}" class="tab">
<h3 class="title{{if $tab.TitleActive}} active{{end}}">{{$tab.Title}}</h3>
<ul>
{{- range $tab.VisibleItems}}
<li id="{{.ID}}" class="{{.ClassList}}"><form method="post" action="/tabs/{{pathEscape (print $tab.ID)}}/items/{{pathEscape .ID}}"><button type="submit">{{.ID}}</button></form></li>
{{- end}}
</ul>
</div>
{{- end}}{{end}}
{{- end}}
</div>
<div id="svg_body">
{{- if .Chart}}
<img src="/chart.svg?v={{.Version}}" alt="chart">
{{- else if .Error}}
<p class="error">{{.Error}}</p>
{{- end}}
</div>
</body>
</html>
`
