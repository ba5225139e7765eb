package ui

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Two-Layer Perceptron</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            min-height: 100vh;
            padding: 20px;
            color: #333;
        }

        .container {
            max-width: 1400px;
            margin: 0 auto;
            background: white;
            border-radius: 20px;
            box-shadow: 0 20px 60px rgba(0, 0, 0, 0.3);
            padding: 30px;
        }

        h1 {
            text-align: center;
            color: #667eea;
            margin-bottom: 30px;
            font-size: 2.2em;
        }

        .area {
            display: grid;
            grid-template-columns: 320px 1fr;
            gap: 30px;
            align-items: start;
        }

        .left-panel {
            background: #f8f9fa;
            padding: 20px;
            border-radius: 10px;
        }

        label {
            display: block;
            font-weight: bold;
            color: #555;
            margin-top: 12px;
        }

        input, select {
            width: 100%;
            padding: 8px;
            margin-top: 4px;
            border: 1px solid #ccc;
            border-radius: 6px;
        }

        button {
            width: 100%;
            padding: 15px;
            margin: 10px 0;
            font-size: 1.1em;
            font-weight: bold;
            border: none;
            border-radius: 8px;
            cursor: pointer;
            text-transform: uppercase;
        }

        button.primary {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
        }

        button.secondary {
            background: #f44336;
            color: white;
        }

        .stat-item {
            background: white;
            padding: 12px;
            margin: 8px 0;
            border-radius: 8px;
            display: flex;
            justify-content: space-between;
            box-shadow: 0 2px 5px rgba(0, 0, 0, 0.1);
        }

        .stat-value {
            color: #667eea;
            font-weight: bold;
        }

        canvas {
            border: 2px solid #ddd;
            border-radius: 10px;
            background: white;
            margin-bottom: 20px;
        }

        .chart-title {
            margin: 10px 0;
            color: #667eea;
            font-size: 1.2em;
            font-weight: bold;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Two-Layer Perceptron Regression</h1>

        <div class="area">
            <div class="left-panel">
                <label for="target">Target function</label>
                <select id="target"></select>
                <label for="hidden">Hidden units (M)</label>
                <input id="hidden" type="number" value="4" min="1">
                <label for="eta">Learning rate</label>
                <input id="eta" type="number" value="0.1" step="0.01">
                <label for="schedule">Schedule</label>
                <select id="schedule">
                    <option value="constant">constant</option>
                    <option value="pegasos">eta / i</option>
                    <option value="decay">100 / (1000 + i) + eta</option>
                </select>
                <label for="random">Sampling</label>
                <select id="random">
                    <option value="false">sequential</option>
                    <option value="true">random</option>
                </select>
                <label for="samples">Samples (sequential)</label>
                <input id="samples" type="number" value="50">
                <label for="epochs">Iterations (sequential)</label>
                <input id="epochs" type="number" value="1000">
                <label for="randomSamples">Samples (random)</label>
                <input id="randomSamples" type="number" value="5000">
                <label><input id="showHidden" type="checkbox" style="width:auto"> Show hidden units</label>

                <button class="primary" onclick="startTraining()">Calculate</button>
                <button class="secondary" onclick="stopTraining()">Stop</button>

                <div class="stat-item">
                    <span>Status:</span>
                    <span class="stat-value" id="status">Idle</span>
                </div>
                <div class="stat-item">
                    <span>Iterations:</span>
                    <span class="stat-value" id="trainCount">0</span>
                </div>
                <div class="stat-item">
                    <span>Error:</span>
                    <span class="stat-value" id="lastError">-</span>
                </div>
            </div>

            <div>
                <div class="chart-title">Input / Output</div>
                <canvas id="fitChart" width="900" height="380"></canvas>
                <div class="chart-title">Error</div>
                <canvas id="errorChart" width="900" height="260"></canvas>
            </div>
        </div>
    </div>

    <script>
        let polling = null;

        async function loadTargets() {
            const response = await fetch('/api/targets');
            const targets = await response.json();
            const select = document.getElementById('target');
            targets.forEach(t => {
                const option = document.createElement('option');
                option.value = t.name;
                option.textContent = t.formula;
                if (t.name === 'sin') {
                    option.selected = true;
                }
                select.appendChild(option);
            });
        }

        async function startTraining() {
            const cfg = {
                target: document.getElementById('target').value,
                hiddenUnits: parseInt(document.getElementById('hidden').value),
                learningRate: parseFloat(document.getElementById('eta').value),
                schedule: document.getElementById('schedule').value,
                random: document.getElementById('random').value === 'true',
                samples: parseInt(document.getElementById('samples').value),
                epochs: parseInt(document.getElementById('epochs').value),
                randomSamples: parseInt(document.getElementById('randomSamples').value)
            };
            const response = await fetch('/api/train', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify(cfg)
            });
            if (!response.ok) {
                alert(await response.text());
                return;
            }
            if (polling === null) {
                polling = setInterval(updateStatus, 500);
            }
        }

        async function stopTraining() {
            await fetch('/api/stop', { method: 'POST' });
        }

        async function updateStatus() {
            const response = await fetch('/api/status');
            const status = await response.json();
            document.getElementById('status').textContent = status.failure || (status.running ? 'Training' : 'Done');
            document.getElementById('trainCount').textContent = status.trainCount;
            document.getElementById('lastError').textContent = status.lastError === null ? 'NaN' : status.lastError.toFixed(5);
            await loadResult();
            if (!status.running) {
                clearInterval(polling);
                polling = null;
            }
        }

        async function loadResult() {
            const response = await fetch('/api/result');
            if (!response.ok) {
                return;
            }
            const result = await response.json();

            const fit = result.fit.x.map((x, i) => ({ x: x, y: result.fit.y[i] }));
            const series = [
                { values: result.training, color: '#7777ff' },
                { values: fit, color: '#ff7f0e' }
            ];
            if (document.getElementById('showHidden').checked) {
                result.fit.hidden.forEach(h => {
                    series.push({ values: result.fit.x.map((x, i) => ({ x: x, y: h[i] })), color: '#2ca02c' });
                });
            }
            drawChart('fitChart', series, 'x', 'y');
            drawChart('errorChart', [{ values: result.errors, color: '#7777ff' }], 'iteration', 'error');
        }

        function drawChart(id, series, xLabel, yLabel) {
            const canvas = document.getElementById(id);
            const ctx = canvas.getContext('2d');
            const width = canvas.width;
            const height = canvas.height;
            const padding = 50;

            ctx.fillStyle = 'white';
            ctx.fillRect(0, 0, width, height);

            series.forEach(s => { s.values = s.values.filter(p => p.x !== null && p.y !== null); });
            const points = series.flatMap(s => s.values);
            if (points.length === 0) {
                ctx.fillStyle = '#999';
                ctx.font = '16px Arial';
                ctx.textAlign = 'center';
                ctx.fillText('No data yet', width / 2, height / 2);
                return;
            }

            let minX = Math.min(...points.map(p => p.x));
            let maxX = Math.max(...points.map(p => p.x));
            let minY = Math.min(...points.map(p => p.y));
            let maxY = Math.max(...points.map(p => p.y));
            if (maxX === minX) { maxX = minX + 1; }
            if (maxY === minY) { maxY = minY + 1; }

            const px = x => padding + (x - minX) / (maxX - minX) * (width - 2 * padding);
            const py = y => height - padding - (y - minY) / (maxY - minY) * (height - 2 * padding);

            ctx.strokeStyle = '#333';
            ctx.lineWidth = 2;
            ctx.beginPath();
            ctx.moveTo(padding, padding);
            ctx.lineTo(padding, height - padding);
            ctx.lineTo(width - padding, height - padding);
            ctx.stroke();

            ctx.fillStyle = '#333';
            ctx.font = '12px Arial';
            ctx.textAlign = 'center';
            ctx.fillText(xLabel, width / 2, height - 10);
            ctx.fillText(minX.toFixed(3), padding, height - padding + 15);
            ctx.fillText(maxX.toFixed(3), width - padding, height - padding + 15);
            ctx.textAlign = 'right';
            ctx.fillText(maxY.toFixed(3), padding - 5, padding);
            ctx.fillText(minY.toFixed(3), padding - 5, height - padding);
            ctx.save();
            ctx.translate(15, height / 2);
            ctx.rotate(-Math.PI / 2);
            ctx.textAlign = 'center';
            ctx.fillText(yLabel, 0, 0);
            ctx.restore();

            series.forEach(s => {
                ctx.strokeStyle = s.color;
                ctx.lineWidth = 2;
                ctx.beginPath();
                s.values.forEach((p, i) => {
                    if (i === 0) {
                        ctx.moveTo(px(p.x), py(p.y));
                    } else {
                        ctx.lineTo(px(p.x), py(p.y));
                    }
                });
                ctx.stroke();
            });
        }

        loadTargets().then(startTraining);
    </script>
</body>
</html>
`
