// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

// menuTemplate is the single built-in public menu page. Theme palette
// arrives as CSS custom properties on <body>; layout toggles arrive as
// data attributes the stylesheet keys on.
const menuTemplate = `<!DOCTYPE html>
<html lang="en" data-mode="{{.Mode}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Name}}</title>
{{if .Description}}<meta name="description" content="{{.Description}}">{{end}}
<style>
body {
  background: hsl(var(--color-background));
  color: hsl(var(--color-foreground));
  font-family: "{{.FontBody}}", sans-serif;
  margin: 0;
}
h1, h2, h3 { font-family: "{{.FontHeading}}", serif; }
header { padding: 2rem 1rem; text-align: center; }
main { max-width: 64rem; margin: 0 auto; padding: 0 1rem 3rem; }
.category > h2 { border-bottom: 1px solid hsl(var(--color-muted)); padding-bottom: .25rem; }
.subcategory > h3 { color: hsl(var(--color-muted)); }
.dishes { display: grid; grid-template-columns: repeat({{.GridColumns}}, 1fr); gap: 1rem; }
.dish {
  background: hsl(var(--color-card));
  border-radius: var(--radius);
  padding: 1rem;
}
.dish img { width: 100%; border-radius: var(--radius); }
.dish .price { color: hsl(var(--color-primary)); font-weight: 600; }
.badge {
  display: inline-block;
  border-radius: 9999px;
  color: #fff;
  font-size: .7rem;
  padding: .1rem .5rem;
  margin-right: .25rem;
}
.dietary, .allergens, .calories { font-size: .8rem; color: hsl(var(--color-muted)); }
.extras { font-size: .85rem; margin-top: .5rem; }
#allergen-filter { margin: 1rem 0; }
body[data-density="compact"] .dish { padding: .5rem; }
body[data-density="spacious"] .dish { padding: 1.5rem; }
body[data-font-size="sm"] { font-size: .875rem; }
body[data-font-size="lg"] { font-size: 1.125rem; }
</style>
</head>
<body style="{{.CSSVars}}" data-density="{{.Density}}" data-font-size="{{.FontSize}}">
<header>
  <h1>{{.Name}}</h1>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
</header>
<main>
{{if and .ShowAllergenFilter .Allergens}}
<div id="allergen-filter">
  <span>Filter allergens:</span>
  {{range .Allergens}}<label><input type="checkbox" value="{{.}}"> {{.}}</label> {{end}}
</div>
{{end}}
{{range .Categories}}
<section class="category">
  <h2>{{.Name}}</h2>
  {{range .Subcategories}}
  <section class="subcategory">
    <h3>{{.Name}}</h3>
    <div class="dishes">
    {{range .Dishes}}
      <article class="dish" data-allergens="{{range .Allergens}}{{.}} {{end}}">
        {{if and $.ShowImages .ImageURL}}<img src="{{.ImageURL}}" alt="{{.Name}}" loading="lazy">{{end}}
        <div>
          {{range .Badges}}<span class="badge" style="background: {{.Color}}">{{.Label}}</span>{{end}}
        </div>
        <h4>{{.Name}}</h4>
        {{if .Description}}<p>{{.Description}}</p>{{end}}
        {{if $.ShowPrices}}<p class="price">{{.Price}}</p>{{end}}
        {{if .Dietary}}<p class="dietary">{{range .Dietary}}{{.}} {{end}}</p>{{end}}
        {{if .Allergens}}<p class="allergens">Contains: {{range $i, $a := .Allergens}}{{if $i}}, {{end}}{{$a}}{{end}}</p>{{end}}
        {{if .Calories}}<p class="calories">{{.Calories}} kcal</p>{{end}}
        {{if and $.ShowPrices .Options}}
        <ul class="extras">
          {{range .Options}}<li>{{.Name}} — ${{.Price}}</li>{{end}}
        </ul>
        {{end}}
        {{if and $.ShowPrices .Modifiers}}
        <ul class="extras">
          {{range .Modifiers}}<li>+ {{.Name}} ${{.Price}}</li>{{end}}
        </ul>
        {{end}}
      </article>
    {{end}}
    </div>
  </section>
  {{end}}
</section>
{{end}}
</main>
<script>
document.querySelectorAll('#allergen-filter input').forEach(function (box) {
  box.addEventListener('change', function () {
    var excluded = Array.prototype.slice
      .call(document.querySelectorAll('#allergen-filter input:checked'))
      .map(function (b) { return b.value; });
    document.querySelectorAll('.dish').forEach(function (dish) {
      var list = (dish.dataset.allergens || '').trim().split(/\s+/);
      var hit = excluded.some(function (a) { return list.indexOf(a) !== -1; });
      dish.style.display = hit ? 'none' : '';
    });
  });
});
</script>
</body>
</html>`

const notFoundTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Menu not found</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 4rem 1rem">
<h1>Menu not found</h1>
<p>The menu you are looking for does not exist or the link is no longer valid.</p>
</body>
</html>`

const unpublishedTemplate = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Name}}</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 4rem 1rem">
<h1>{{.Name}}</h1>
<p>This menu is not published yet. Check back soon.</p>
</body>
</html>`
