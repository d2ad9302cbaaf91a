package dashboard

import (
	"html/template"

	"github.com/achilleasa/polaris-bench/display"
)

type pageData struct {
	Title       string
	State       string
	HostCards   []display.Card
	ClientCards []display.Card
	MetricCards []display.Card
}

var pageTemplate = template.Must(template.Must(display.HTMLTemplate.Clone()).New("page").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
  <style>
    body { font-family: sans-serif; }
    .cards { display: flex; flex-wrap: wrap; gap: 1em; }
    .card { border: 1px solid #ccc; padding: 0 1em; min-width: 12em; }
    dt { float: left; clear: left; width: 6em; color: #666; }
  </style>
</head>
<body>
  <h2>Hardware (host)</h2>
  <div class="cards">{{ template "cards" .HostCards }}</div>
  <h2>Hardware (client)</h2>
  <div class="cards">{{ template "cards" .ClientCards }}</div>
  <h2>Benchmark <small id="state">{{ .State }}</small></h2>
  <button id="start">start</button>
  <button id="stop">stop</button>
  <div class="cards" id="metrics">{{ template "cards" .MetricCards }}</div>
  <script>
    const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    const metrics = document.getElementById("metrics");
    const state = document.getElementById("state");
    function render(cards) {
      metrics.replaceChildren(...cards.map(card => {
        const div = document.createElement("div");
        div.className = "card";
        const title = document.createElement("h3");
        title.textContent = card.title;
        const dl = document.createElement("dl");
        for (const item of card.items) {
          const dt = document.createElement("dt");
          dt.textContent = item.label;
          const dd = document.createElement("dd");
          dd.textContent = item.value;
          dl.append(dt, dd);
        }
        div.append(title, dl);
        return div;
      }));
    }
    ws.onmessage = ev => {
      const msg = JSON.parse(ev.data);
      if (msg.state) state.textContent = msg.state;
      if (msg.cards) render(msg.cards);
      if (msg.error) console.error(msg.error);
    };
    document.getElementById("start").onclick = () => ws.send(JSON.stringify({action: "start"}));
    document.getElementById("stop").onclick = () => ws.send(JSON.stringify({action: "stop"}));
  </script>
</body>
</html>
`))
