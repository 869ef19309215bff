package script

// DemoScript is the built-in self-test sequence, run with -demo. It walks
// every pattern: alternating at default and explicit rates, steady colors,
// blinking, then primary stepping with counting bursts of 1 to 4. Color
// names come from led.colors(), so the sequence works with any configured
// pair.
const DemoScript = `
local led = require("led")
local first, second = led.colors()

led.alternate()
print("state => " .. led.state())
led.sleep(5)

led.alternate(3)
print("state => " .. led.state())
led.sleep(5)

led.on(first)
print("state => " .. led.state())
led.sleep(2)

led.on(second)
print("state => " .. led.state())
led.sleep(2)

led.blink(0, first)
print("state => " .. led.state())
led.sleep(5)

led.on()
print("state => " .. led.state())
led.sleep(2)

led.off()
led.sleep(1)

led.blink(5, second)
print("state => " .. led.state())
led.sleep(5)

led.off()
led.sleep(1)

for _, color in ipairs({first, second}) do
	print("setting primary color: " .. color)
	led.set_primary(color)

	led.on()
	print("state => " .. led.state())
	led.sleep(1)

	led.off()
	led.sleep(1)

	led.blink()
	print("state => " .. led.state())
	led.sleep(5)

	led.off()
	led.sleep(1)

	for n = 1, 4 do
		led.count(n)
		print("state => " .. led.state())
		led.sleep(5 + n)
		led.off()
		led.sleep(1)
	end

	led.off()
end
`
